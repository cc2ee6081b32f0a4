package wordgraph

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// DOTOptions configures DOT generation.
type DOTOptions struct {
	// Name is the digraph name; "cayley" when empty.
	Name string

	// LetterNames labels edges; when shorter than the out-degree the
	// remaining labels fall back to their numeric index.
	LetterNames []string

	// NodeNames labels nodes; when shorter than the node count the
	// remaining nodes fall back to their numeric index.
	NodeNames []string
}

// ToDOT converts the graph to Graphviz DOT format. Undefined slots are
// omitted; parallel edges with different labels are kept separate. The
// resulting DOT string can be rendered with [Render].
func ToDOT(g *Graph, opts DOTOptions) string {
	name := opts.Name
	if name == "" {
		name = "cayley"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", name)
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=circle, fontsize=12];\n")
	buf.WriteString("  edge [fontsize=10];\n\n")

	for s := uint32(0); s < g.NumberOfNodes(); s++ {
		fmt.Fprintf(&buf, "  %d [label=%q];\n", s, nodeName(opts, s))
	}

	buf.WriteString("\n")
	for s := uint32(0); s < g.NumberOfNodes(); s++ {
		for a, t := g.NextLabelTarget(s, 0); a != Undefined; a, t = g.NextLabelTarget(s, a+1) {
			fmt.Fprintf(&buf, "  %d -> %d [label=%q];\n", s, t, letterName(opts, a))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// Render renders the graph through Graphviz into the given format
// ("svg", "png", or "dot" for the raw text).
func Render(ctx context.Context, g *Graph, opts DOTOptions, format string) ([]byte, error) {
	dot := ToDOT(g, opts)
	if format == "dot" {
		return []byte(dot), nil
	}

	var gvFormat graphviz.Format
	switch format {
	case "svg":
		gvFormat = graphviz.SVG
	case "png":
		gvFormat = graphviz.PNG
	default:
		return nil, fmt.Errorf("unsupported graph format %q", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

func nodeName(opts DOTOptions, s uint32) string {
	if int(s) < len(opts.NodeNames) {
		return opts.NodeNames[s]
	}
	return fmt.Sprintf("%d", s)
}

func letterName(opts DOTOptions, a uint32) string {
	if int(a) < len(opts.LetterNames) {
		return opts.LetterNames[a]
	}
	return fmt.Sprintf("%d", a)
}
