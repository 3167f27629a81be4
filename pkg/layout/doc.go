// Package layout computes backbone layouts for genetic-circuit designs.
//
// # Overview
//
// A backbone layout is a one-dimensional placement of parts along a
// sequence, with a secondary track dimension so that overlapping parts can
// be drawn on separate rows. Forward-strand parts stack upward from track 0
// (tracks -1, -2, ...) and reverse-strand parts stack downward (tracks 1,
// 2, ...).
//
// [Build] runs the whole engine against a read-only [Document]:
//
//  1. Grouping: children are partitioned into connected components by a
//     union-find over two relations, "has a location" (all located children
//     share one component) and "linked by a constraint".
//  2. Expansion: a child with N locations becomes N placement units.
//  3. Scoring: units are ordered by the priority of their role terms.
//  4. Fixed placement: units whose location has explicit coordinates are
//     placed as-is.
//  5. Propagation: "precedes" constraints with exactly one placed side
//     place the other side next to it, until a full pass changes nothing.
//  6. Fallback: units still unplaced are ordered by their constraints and
//     laid out left to right from coordinate 0.
//  7. Compaction: optionally widen ranges below the minimum width and
//     collapse long empty stretches into unit-length markers.
//
// # Coordinates
//
// Base-pair coordinates are multiplied by [Options.Scale] to obtain grid
// units. All ranges are half-open [start, end). Constraint propagation on
// the reverse strand may produce negative coordinates; they are kept as-is.
//
// # Errors
//
// Structural inconsistencies abort the run with an [errors.Error] whose code
// is UNRESOLVED_URI, MISSING_START, UNSUPPORTED_OBJECT or
// DUPLICATE_PLACEMENT. A constraint whose endpoint names something other
// than a child, such as a part definition, is logged, recorded in
// [Result.Warnings] and skipped.
//
// # Concurrency
//
// Build is synchronous and keeps no state between calls. Concurrent calls
// are safe as long as the Document is not being modified.
//
// [errors.Error]: github.com/matzehuels/backbone/pkg/errors.Error
package layout
