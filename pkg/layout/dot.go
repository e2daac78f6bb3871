package layout

import (
	"bytes"
	"fmt"
	"strings"
)

// ToDOT converts a layout spec to Graphviz DOT text. Nodes are emitted
// with their sizes in inches; every edge carries its key in the comment
// attribute so it can be matched after layout, since parallel edges share
// endpoint names.
func ToDOT(spec *Spec) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", dotQuote(spec.Name))
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [fontsize=10];\n")
	buf.WriteString("\n")

	for _, n := range spec.Nodes {
		attrs := []string{
			fmt.Sprintf("width=%s", fmtInches(n.Width)),
			fmt.Sprintf("height=%s", fmtInches(n.Height)),
		}
		if n.Shape != "" {
			attrs = append(attrs, "shape="+dotQuote(n.Shape))
		}
		if n.Label != "" {
			attrs = append(attrs, "label="+dotQuote(n.Label))
		}
		if n.Fixed {
			attrs = append(attrs, "fixedsize=true")
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", dotQuote(n.Name), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range spec.Edges {
		fmt.Fprintf(&buf, "  %s -> %s [comment=%s];\n", dotQuote(e.From), dotQuote(e.To), dotQuote(e.Key))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtInches(v float64) string {
	return fmt.Sprintf("%.4g", v)
}

// dotQuote returns s as a DOT double-quoted string.
func dotQuote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('"')
	return b.String()
}
