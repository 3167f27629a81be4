// Package pkg holds the libraries behind backbone, a layout engine for
// genetic circuit designs.
//
// A design is a container sequence with child parts (sequence features and
// sub-components), optional coordinates for each part, and "precedes"
// constraints between parts. The engine places every part on numbered tracks
// along the container so parts on the same strand of a track never overlap.
//
// # Packages
//
//   - [design]: the design document model, JSON/YAML/TOML IO and snapshots
//   - [layout]: the layout engine
//   - [geom]: half-open intervals and interval sets on the layout grid
//   - [displaylist]: the serialized layout exchanged with renderers
//   - [pipeline]: decode → layout → encode with caching and configuration
//   - [cache]: file, Redis and no-op caches
//   - [errors]: coded errors shared by all packages
//   - [observability]: hooks for metrics and tracing
//   - [buildinfo]: version information stamped at link time
//
// # Data Flow
//
//	design document (JSON, YAML, TOML)
//	         ↓
//	    [design] package (decode, validate, snapshot)
//	         ↓
//	    [layout] package (group, place, propagate, order, compact)
//	         ↓
//	    [displaylist] package (serialize)
//	         ↓
//	    JSON/BSON layout, DOT/SVG constraint graph
//
// # Quick Start
//
//	d, err := design.ReadFile("circuit.yaml")
//	if err != nil {
//	    return err
//	}
//	snap, err := d.Snapshot()
//	if err != nil {
//	    return err
//	}
//	res, err := layout.Build(snap, layout.Options{OmitEmptySpace: true})
//	if err != nil {
//	    return err
//	}
//	return displaylist.Write(os.Stdout, displaylist.FromResult(res, snap.URI()))
package pkg
