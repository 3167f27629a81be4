package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/matzehuels/backbone/pkg/design"
	"github.com/matzehuels/backbone/pkg/displaylist"
	"github.com/matzehuels/backbone/pkg/layout"
	"github.com/matzehuels/backbone/pkg/observability"
)

// =============================================================================
// Decode
// =============================================================================

// LoadDesign decodes a design document and reports the decode to the
// pipeline hooks.
func LoadDesign(ctx context.Context, r io.Reader, format design.Format) (*design.Design, error) {
	hooks := observability.Pipeline()
	hooks.OnDecodeStart(ctx, string(format))
	start := time.Now()

	d, err := design.Read(r, format)
	children := 0
	if d != nil {
		children = len(d.Children)
	}
	hooks.OnDecodeComplete(ctx, string(format), children, time.Since(start), err)
	return d, err
}

// =============================================================================
// Layout
// =============================================================================

// GenerateLayout runs the layout engine over a snapshot and converts the
// result to a display list.
func GenerateLayout(ctx context.Context, snap *design.Snapshot, opts layout.Options) (*displaylist.DisplayList, error) {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, snap.URI(), len(snap.Children()))
	start := time.Now()

	res, err := layout.Build(snap, opts)
	if err != nil {
		hooks.OnLayoutComplete(ctx, snap.URI(), 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnLayoutComplete(ctx, snap.URI(), res.UnitCount(), time.Since(start), nil)
	return displaylist.FromResult(res, snap.URI()), nil
}
