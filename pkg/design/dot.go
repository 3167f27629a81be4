package design

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
)

// ToDOT converts the ordering constraints of a snapshot to Graphviz DOT.
// Nodes are children that take part in at least one constraint; fixed parts
// are drawn filled so the anchors of constraint propagation stand out.
// Non-precedes restrictions are drawn dashed.
func ToDOT(s *Snapshot) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	used := make(map[string]bool)
	for _, c := range s.Constraints() {
		used[c.Subject] = true
		used[c.Object] = true
	}

	for _, p := range s.Children() {
		if !used[p.URI] {
			continue
		}
		attrs := []string{fmt.Sprintf("label=%q", p.DisplayName())}
		if hasFixedLocation(p) {
			attrs = append(attrs, "fillcolor=lightblue")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", p.URI, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, c := range s.Constraints() {
		if c.Precedes() {
			fmt.Fprintf(&buf, "  %q -> %q;\n", c.Subject, c.Object)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [style=dashed, label=%q];\n", c.Subject, c.Object, lastSegment(c.Restriction))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func hasFixedLocation(p *Part) bool {
	for _, l := range p.Locations {
		if l.Fixed() {
			return true
		}
	}
	return false
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
