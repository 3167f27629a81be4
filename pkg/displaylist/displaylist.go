// Package displaylist provides the serialized form of a backbone layout.
//
// A [DisplayList] is what renderers, the HTTP API and the layout cache
// exchange: plain data with tracks in ascending index order and units in
// position order, so the same layout always serializes to the same bytes.
// It is encodable as JSON for API responses and files, and as BSON for
// document stores.
//
//	res, err := layout.Build(snap, opts)
//	if err != nil {
//	    return err
//	}
//	dl := displaylist.FromResult(res, snap.URI())
//	data, err := displaylist.Marshal(dl, displaylist.FormatJSON)
package displaylist

import (
	"bytes"
	"encoding/json"
	"io"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/matzehuels/backbone/pkg/errors"
	"github.com/matzehuels/backbone/pkg/geom"
	"github.com/matzehuels/backbone/pkg/layout"
)

// Strand values.
const (
	StrandForward = "forward"
	StrandReverse = "reverse"
)

// Encoding formats.
const (
	FormatJSON = "json"
	FormatBSON = "bson"
)

// =============================================================================
// DisplayList - Layout Serialization
// =============================================================================

// DisplayList is the canonical serialization of a layout result.
type DisplayList struct {
	Design    string   `json:"design,omitempty" bson:"design,omitempty"`
	Groups    []Group  `json:"groups" bson:"groups"`
	Ungrouped []string `json:"ungrouped,omitempty" bson:"ungrouped,omitempty"`
	Warnings  []string `json:"warnings,omitempty" bson:"warnings,omitempty"`
}

// Group is one placement group.
type Group struct {
	Length       float64         `json:"length" bson:"length"`
	Tracks       []Track         `json:"tracks" bson:"tracks"`
	Omitted      []geom.Interval `json:"omitted,omitempty" bson:"omitted,omitempty"`
	OmittedSpans []geom.Interval `json:"omitted_spans,omitempty" bson:"omitted_spans,omitempty"`
}

// Track is one row of a group. Negative indices are above the main
// backbone, positive ones below.
type Track struct {
	Index int    `json:"index" bson:"index"`
	Units []Unit `json:"units" bson:"units"`
}

// Unit is a placed part or part location.
type Unit struct {
	Part     string  `json:"part" bson:"part"`
	Location string  `json:"location,omitempty" bson:"location,omitempty"`
	Start    float64 `json:"start" bson:"start"`
	End      float64 `json:"end" bson:"end"`
	Strand   string  `json:"strand" bson:"strand"`
}

// Forward reports whether the unit reads on the forward strand.
func (u Unit) Forward() bool { return u.Strand != StrandReverse }

// Stats summarizes a display list.
type Stats struct {
	Groups    int
	Tracks    int
	Units     int
	Ungrouped int
	Omitted   int
}

// Stats counts the elements of the display list.
func (dl *DisplayList) Stats() Stats {
	s := Stats{Groups: len(dl.Groups), Ungrouped: len(dl.Ungrouped)}
	for _, g := range dl.Groups {
		s.Tracks += len(g.Tracks)
		s.Omitted += len(g.Omitted)
		for _, t := range g.Tracks {
			s.Units += len(t.Units)
		}
	}
	return s
}

// =============================================================================
// Result → DisplayList Conversion
// =============================================================================

// FromResult converts a layout result to its serialization format.
func FromResult(res *layout.Result, design string) *DisplayList {
	dl := &DisplayList{
		Design:    design,
		Groups:    make([]Group, 0, len(res.Groups)),
		Ungrouped: res.Ungrouped,
		Warnings:  res.Warnings,
	}
	for _, g := range res.Groups {
		dl.Groups = append(dl.Groups, groupFromLayout(g))
	}
	return dl
}

func groupFromLayout(g *layout.Group) Group {
	out := Group{
		Length:       g.Length,
		Omitted:      g.Omitted.Clone(),
		OmittedSpans: g.OmittedSpans.Clone(),
	}
	for _, i := range g.TrackIndices() {
		t := g.Tracks[i]
		track := Track{Index: i, Units: make([]Unit, 0, len(t.Units))}
		for _, u := range t.Units {
			track.Units = append(track.Units, unitFromLayout(u))
		}
		out.Tracks = append(out.Tracks, track)
	}
	return out
}

func unitFromLayout(u *layout.Unit) Unit {
	strand := StrandForward
	if !u.Forward {
		strand = StrandReverse
	}
	return Unit{
		Part:     u.Handle.Part,
		Location: u.Handle.Location,
		Start:    u.Range.Start,
		End:      u.Range.End,
		Strand:   strand,
	}
}

// =============================================================================
// Encoding
// =============================================================================

// Marshal encodes the display list in the given format.
func Marshal(dl *DisplayList, format string) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		var buf bytes.Buffer
		if err := Write(&buf, dl); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatBSON:
		return bson.Marshal(dl)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported display list format %q", format)
}

// Unmarshal decodes a display list from the given format.
func Unmarshal(data []byte, format string) (*DisplayList, error) {
	var dl DisplayList
	var err error
	switch format {
	case FormatJSON, "":
		err = json.Unmarshal(data, &dl)
	case FormatBSON:
		err = bson.Unmarshal(data, &dl)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported display list format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s display list", format)
	}
	return &dl, nil
}

// Write encodes the display list as indented JSON.
func Write(w io.Writer, dl *DisplayList) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dl)
}
