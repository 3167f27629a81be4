package layout_test

import (
	"fmt"

	"github.com/matzehuels/backbone/pkg/design"
	"github.com/matzehuels/backbone/pkg/layout"
)

func ExampleBuild() {
	d := &design.Design{
		URI: "cassette",
		Children: []*design.Part{
			{URI: "terminator", Kind: design.KindSequenceFeature},
			{URI: "promoter", Kind: design.KindSequenceFeature},
			{URI: "cds", Kind: design.KindSequenceFeature},
		},
		Constraints: []design.Constraint{
			{Subject: "promoter", Object: "cds", Restriction: design.RestrictionPrecedes},
			{Subject: "cds", Object: "terminator", Restriction: design.RestrictionPrecedes},
		},
	}
	snap, err := d.Snapshot()
	if err != nil {
		fmt.Println(err)
		return
	}
	res, err := layout.Build(snap, layout.Options{})
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, g := range res.Groups {
		for _, i := range g.TrackIndices() {
			for _, u := range g.Tracks[i].Units {
				fmt.Printf("track %d: %s [%g, %g)\n", i, u.Handle.Part, u.Range.Start, u.Range.End)
			}
		}
	}
	// Output:
	// track 0: promoter [0, 2)
	// track 0: cds [2, 4)
	// track 0: terminator [4, 6)
}
