package layout

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matzehuels/backbone/pkg/design"
)

// DefaultPriorities scores the roles whose glyphs anchor a diagram:
// CDS, promoter, ribosome entry site, engineered region and terminator.
var DefaultPriorities = map[string]int{
	"SO:0000316": 1000,
	"SO:0000167": 1000,
	"SO:0000139": 1000,
	"SO:0001687": 1000,
	"SO:0000141": 1000,
}

// NormalizeRole reduces a role identifier such as
// "https://identifiers.org/SO:0000167" to its ontology accession.
func NormalizeRole(role string) string {
	if i := strings.LastIndex(role, "SO:"); i >= 0 {
		return role[i:]
	}
	return role
}

// Score returns the highest priority among roles. Unlisted roles score 0,
// as does a unit without roles.
func Score(priorities map[string]int, roles []string) int {
	if len(roles) == 0 {
		return 0
	}
	best := priorities[NormalizeRole(roles[0])]
	for _, r := range roles[1:] {
		best = max(best, priorities[NormalizeRole(r)])
	}
	return best
}

// prioritize scores units and sorts them by descending priority. Equal
// scores keep document order.
func (b *builder) prioritize(units []*unit) {
	for _, u := range units {
		u.priority = Score(b.opts.Priorities, design.PartRoles(b.doc, u.part))
	}
	slices.SortStableFunc(units, func(x, y *unit) int {
		return cmp.Compare(y.priority, x.priority)
	})
}
