package pipeline

import (
	"context"

	"github.com/matzehuels/backbone/pkg/design"
	"github.com/matzehuels/backbone/pkg/displaylist"
	"github.com/matzehuels/backbone/pkg/errors"
)

// Encode produces one artifact. json and bson encode the display list; dot
// and svg draw the constraint graph of the design.
func Encode(ctx context.Context, dl *displaylist.DisplayList, snap *design.Snapshot, format string) ([]byte, error) {
	switch format {
	case FormatJSON, FormatBSON:
		return displaylist.Marshal(dl, format)
	case FormatDOT:
		return []byte(design.ToDOT(snap)), nil
	case FormatSVG:
		return design.RenderSVG(ctx, design.ToDOT(snap))
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported artifact format %q", format)
}

// sourceOf reports whether an artifact derives from the layout or from the
// design alone.
func sourceOf(format string) string {
	if format == FormatDOT || format == FormatSVG {
		return "design"
	}
	return "layout"
}
