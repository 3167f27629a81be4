package layout

import (
	"fmt"

	"github.com/matzehuels/backbone/pkg/design"
	"github.com/matzehuels/backbone/pkg/errors"
)

// partitioning is the output of the connectivity grouper.
type partitioning struct {
	groups      [][]int               // member child indices, ascending
	constraints [][]design.Constraint // constraints of each group, document order
	ungrouped   []int
	dangling    []dangling
}

// dangling is a constraint with an endpoint that resolves in the document
// but is not one of its children. It takes no part in the layout.
type dangling struct {
	constraint design.Constraint
	side, uri  string
}

func (d dangling) String() string {
	return fmt.Sprintf("constraint %s: %s %s is not a child of the container, skipped", d.constraint.URI, d.side, d.uri)
}

// unionFind is a disjoint-set forest over child indices. The root of a set
// is always its lowest index.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	u := &unionFind{parent: make([]int, n)}
	for i := range u.parent {
		u.parent[i] = i
	}
	return u
}

func (u *unionFind) find(i int) int {
	root := i
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[i] != root {
		next := u.parent[i]
		u.parent[i] = root
		i = next
	}
	return root
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	switch {
	case ra < rb:
		u.parent[rb] = ra
	case rb < ra:
		u.parent[ra] = rb
	}
}

// partition splits the children of doc into connected components.
// Every child with a location joins one shared component; every constraint
// joins its subject and object. A constraint whose endpoint resolves to
// something other than a child is set aside as dangling; an endpoint that
// does not resolve at all is fatal.
func partition(doc Document) (*partitioning, error) {
	children := doc.Children()
	index := make(map[string]int, len(children))
	for i, p := range children {
		index[p.URI] = i
	}

	uf := newUnionFind(len(children))
	touched := make([]bool, len(children))

	located := -1
	for i, p := range children {
		if len(p.Locations) == 0 {
			continue
		}
		touched[i] = true
		if located < 0 {
			located = i
			continue
		}
		uf.union(located, i)
	}

	p := &partitioning{}
	constraints := doc.Constraints()
	endpoints := make([][2]int, len(constraints))
	for ci, c := range constraints {
		endpoints[ci] = [2]int{-1, -1}
		s, sok, err := resolveChild(doc, index, c.Subject)
		if err != nil {
			return nil, err
		}
		o, ook, err := resolveChild(doc, index, c.Object)
		if err != nil {
			return nil, err
		}
		switch {
		case !sok:
			p.dangling = append(p.dangling, dangling{constraint: c, side: "subject", uri: c.Subject})
			continue
		case !ook:
			p.dangling = append(p.dangling, dangling{constraint: c, side: "object", uri: c.Object})
			continue
		}
		touched[s], touched[o] = true, true
		uf.union(s, o)
		endpoints[ci] = [2]int{s, o}
	}

	groupOf := make(map[int]int)
	for i := range children {
		if !touched[i] {
			p.ungrouped = append(p.ungrouped, i)
			continue
		}
		root := uf.find(i)
		gi, ok := groupOf[root]
		if !ok {
			gi = len(p.groups)
			groupOf[root] = gi
			p.groups = append(p.groups, nil)
			p.constraints = append(p.constraints, nil)
		}
		p.groups[gi] = append(p.groups[gi], i)
	}
	for ci, c := range constraints {
		if endpoints[ci][0] < 0 {
			continue
		}
		gi := groupOf[uf.find(endpoints[ci][0])]
		p.constraints[gi] = append(p.constraints[gi], c)
	}
	return p, nil
}

// resolveChild returns the child index of uri. The boolean is false when
// uri names something in the document that is not a child, such as a part
// definition.
func resolveChild(doc Document, index map[string]int, uri string) (int, bool, error) {
	if i, ok := index[uri]; ok {
		return i, true, nil
	}
	if _, ok := doc.Resolve(uri); ok {
		return 0, false, nil
	}
	if _, ok := doc.Definition(uri); ok {
		return 0, false, nil
	}
	return 0, false, errors.New(errors.ErrCodeUnresolvedURI, "constraint endpoint %s cannot be resolved", uri)
}
