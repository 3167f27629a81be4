package layout

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/backbone/pkg/design"
	"github.com/matzehuels/backbone/pkg/errors"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultScale converts base pairs to grid units.
	DefaultScale = 0.02

	// DefaultMinWidth is the smallest width, in grid units, given to a unit
	// without a known sequence length, and the target of ForceMinWidth.
	DefaultMinWidth = 2.0

	// DefaultMinGap is the longest empty stretch OmitEmptySpace leaves alone.
	DefaultMinGap = 2.0

	// DefaultMaxReorderPasses bounds fallback reordering on cyclic constraints.
	DefaultMaxReorderPasses = 10
)

const (
	// markerLength is the length an omitted gap collapses to.
	markerLength = 1.0

	// syntheticWidth is the width of a fixed location with no usable end.
	syntheticWidth = 0.0003

	// insertOffset places a ForceMinWidth insertion just inside the range.
	insertOffset = 1e-4

	// widthTolerance absorbs float error when comparing against MinWidth
	// and MinGap.
	widthTolerance = 1e-9
)

// Document is the read-only surface of a design the engine consumes.
// [*design.Snapshot] implements it.
type Document interface {
	Children() []*design.Part
	Constraints() []design.Constraint
	SequenceLength() int
	Resolve(uri string) (*design.Part, bool)
	Definition(uri string) (*design.Component, bool)
}

// =============================================================================
// Options
// =============================================================================

// Options configures a layout run. The zero value is usable: unset numeric
// fields take their defaults and both compaction passes are off.
type Options struct {
	// OmitEmptySpace collapses empty stretches longer than MinGap.
	OmitEmptySpace bool `json:"omit_empty_space,omitempty"`
	// ForceMinWidth widens every placed range shorter than MinWidth.
	ForceMinWidth bool `json:"force_min_width,omitempty"`

	Scale            float64 `json:"scale,omitempty"`
	MinWidth         float64 `json:"min_width,omitempty"`
	MinGap           float64 `json:"min_gap,omitempty"`
	MaxReorderPasses int     `json:"max_reorder_passes,omitempty"`

	// Priorities maps role terms ("SO:0000167") to placement priority.
	// Nil means DefaultPriorities.
	Priorities map[string]int `json:"priorities,omitempty"`

	Logger *log.Logger `json:"-"`
}

// SetDefaults fills unset fields with their default values.
func (o *Options) SetDefaults() {
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.MinWidth == 0 {
		o.MinWidth = DefaultMinWidth
	}
	if o.MinGap == 0 {
		o.MinGap = DefaultMinGap
	}
	if o.MaxReorderPasses == 0 {
		o.MaxReorderPasses = DefaultMaxReorderPasses
	}
	if o.Priorities == nil {
		o.Priorities = DefaultPriorities
	}
}

// Validate checks option values. Call after SetDefaults.
func (o Options) Validate() error {
	if o.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be positive, got %g", o.Scale)
	}
	if o.MinWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "min width must be positive, got %g", o.MinWidth)
	}
	if o.MinGap < markerLength {
		return errors.New(errors.ErrCodeInvalidConfig, "min gap must be at least %g, got %g", markerLength, o.MinGap)
	}
	if o.MaxReorderPasses < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max reorder passes cannot be negative, got %d", o.MaxReorderPasses)
	}
	return nil
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}

// =============================================================================
// Result
// =============================================================================

// Result is the output of a layout run.
type Result struct {
	// Groups holds one placement group per connected component, ordered by
	// the lowest document index of their members.
	Groups []*Group

	// Ungrouped lists the URIs of children touched by neither a location
	// nor a constraint, in document order. They are not placed.
	Ungrouped []string

	// Warnings records constraints skipped because an endpoint is not a
	// child of the container, in document order.
	Warnings []string
}

// UnitCount returns the number of placed units across all groups.
func (r *Result) UnitCount() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Units())
	}
	return n
}

// Build lays out every child of doc.
//
// The run is deterministic: the same document and options always produce
// the same partition, placement and track assignment.
func Build(doc Document, opts Options) (*Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := opts.logger()

	p, err := partition(doc)
	if err != nil {
		return nil, err
	}

	children := doc.Children()
	res := &Result{Groups: make([]*Group, 0, len(p.groups))}
	for _, i := range p.ungrouped {
		res.Ungrouped = append(res.Ungrouped, children[i].URI)
	}
	for _, d := range p.dangling {
		logger.Warn("skipping constraint", "constraint", d.constraint.URI, d.side, d.uri)
		res.Warnings = append(res.Warnings, d.String())
	}

	for gi, members := range p.groups {
		b := &builder{
			doc:    doc,
			opts:   opts,
			logger: logger.With("group", gi),
			group:  newGroup(float64(doc.SequenceLength()) * opts.Scale),
		}
		if err := b.run(members, p.constraints[gi]); err != nil {
			return nil, err
		}
		res.Groups = append(res.Groups, b.group)
	}

	logger.Debug("layout complete",
		"groups", len(res.Groups),
		"units", res.UnitCount(),
		"ungrouped", len(res.Ungrouped))
	return res, nil
}

// builder carries the state of one group through the pipeline.
type builder struct {
	doc    Document
	opts   Options
	logger *log.Logger
	group  *Group
}

func (b *builder) run(members []int, constraints []design.Constraint) error {
	units, err := b.expand(members)
	if err != nil {
		return err
	}
	b.prioritize(units)

	if err := b.placeFixed(units); err != nil {
		return err
	}

	precedes := make([]design.Constraint, 0, len(constraints))
	for _, c := range constraints {
		if c.Precedes() {
			precedes = append(precedes, c)
		}
	}

	if err := b.propagate(units, precedes); err != nil {
		return err
	}
	if err := b.fallback(units, precedes); err != nil {
		return err
	}

	if b.opts.ForceMinWidth {
		if err := b.group.forceMinWidth(b.opts.MinWidth); err != nil {
			return err
		}
	}
	if b.opts.OmitEmptySpace {
		if err := b.group.omitEmptySpace(b.opts.MinGap); err != nil {
			return err
		}
		b.logger.Debug("omitted empty space", "gaps", len(b.group.Omitted), "length", b.group.Length)
	}
	return b.group.finish()
}

// width returns the grid width of a unit positioned by constraints.
func (b *builder) width(u *unit) float64 {
	return max(float64(design.PartLength(b.doc, u.part))*b.opts.Scale, b.opts.MinWidth)
}
