// Package pipeline provides the decode → layout → encode pipeline shared by
// the CLI and the HTTP API.
//
// Centralizing the pipeline keeps defaults, validation and caching identical
// across entry points.
//
// # Stages
//
//  1. Decode: read a design document (JSON, YAML or TOML) and snapshot it
//  2. Layout: run the backbone layout engine and serialize the display list
//  3. Encode: produce the requested artifacts (json, bson, dot, svg)
//
// Layouts are cached under the hash of the design document and the layout
// options; artifacts under the hash of their source.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	d, err := pipeline.LoadDesign(ctx, f, design.FormatJSON)
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Design:         d,
//	    OmitEmptySpace: true,
//	    Formats:        []string{pipeline.FormatJSON},
//	})
package pipeline

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/backbone/pkg/cache"
	"github.com/matzehuels/backbone/pkg/design"
	"github.com/matzehuels/backbone/pkg/displaylist"
	"github.com/matzehuels/backbone/pkg/errors"
	"github.com/matzehuels/backbone/pkg/layout"
)

// Artifact formats.
const (
	FormatJSON = displaylist.FormatJSON
	FormatBSON = displaylist.FormatBSON
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats lists the supported artifact formats.
var ValidFormats = []string{FormatJSON, FormatBSON, FormatDOT, FormatSVG}

// ValidateFormats checks that every format is supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if !slices.Contains(ValidFormats, f) {
			return errors.New(errors.ErrCodeInvalidFormat,
				"invalid format %q (must be one of: %s)", f, strings.Join(ValidFormats, ", "))
		}
	}
	return nil
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run. The layout fields mirror
// [layout.Options] and share its defaults.
type Options struct {
	Design *design.Design `json:"-"`

	OmitEmptySpace   bool           `json:"omit_empty_space,omitempty"`
	ForceMinWidth    bool           `json:"force_min_width,omitempty"`
	Scale            float64        `json:"scale,omitempty"`
	MinWidth         float64        `json:"min_width,omitempty"`
	MinGap           float64        `json:"min_gap,omitempty"`
	MaxReorderPasses int            `json:"max_reorder_passes,omitempty"`
	Priorities       map[string]int `json:"priorities,omitempty"`

	// Formats lists the artifacts to produce. Empty means json.
	Formats []string `json:"formats,omitempty"`

	// Refresh bypasses cached layouts and artifacts; fresh results are
	// still written back.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Design == nil {
		return errors.New(errors.ErrCodeInvalidInput, "design is required")
	}
	o.SetLayoutDefaults()
	if err := o.LayoutOptions().Validate(); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults fills unset layout fields with the engine defaults.
func (o *Options) SetLayoutDefaults() {
	lo := o.LayoutOptions()
	lo.SetDefaults()
	o.Scale = lo.Scale
	o.MinWidth = lo.MinWidth
	o.MinGap = lo.MinGap
	o.MaxReorderPasses = lo.MaxReorderPasses
	o.Priorities = lo.Priorities
}

// LayoutOptions returns the engine options.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		OmitEmptySpace:   o.OmitEmptySpace,
		ForceMinWidth:    o.ForceMinWidth,
		Scale:            o.Scale,
		MinWidth:         o.MinWidth,
		MinGap:           o.MinGap,
		MaxReorderPasses: o.MaxReorderPasses,
		Priorities:       o.Priorities,
		Logger:           o.Logger,
	}
}

// LayoutKeyOpts returns the cache key options for the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Scale:            o.Scale,
		MinWidth:         o.MinWidth,
		MinGap:           o.MinGap,
		MaxReorderPasses: o.MaxReorderPasses,
		OmitEmptySpace:   o.OmitEmptySpace,
		ForceMinWidth:    o.ForceMinWidth,
		Priorities:       o.Priorities,
	}
}

// =============================================================================
// Result
// =============================================================================

// Result holds the outputs of a pipeline run.
type Result struct {
	// DesignHash is the content hash of the decoded design.
	DesignHash string

	// LayoutHash is the content hash of the JSON display list.
	LayoutHash string

	Layout *displaylist.DisplayList

	// Artifacts holds the encoded outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds size and timing information for a run.
type Stats struct {
	Children   int
	Groups     int
	Tracks     int
	Units      int
	Ungrouped  int
	Warnings   int
	LayoutTime time.Duration
	EncodeTime time.Duration
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	LayoutHit bool
	EncodeHit bool // every artifact came from the cache
}

// HashDesign returns the content hash of a design. Documents that decode to
// the same design hash alike, whatever their source format.
func HashDesign(d *design.Design) (string, error) {
	var b strings.Builder
	if err := design.Write(&b, d, design.FormatJSON); err != nil {
		return "", fmt.Errorf("hash design: %w", err)
	}
	return cache.Hash([]byte(b.String())), nil
}
