package render

import (
	"bytes"

	"github.com/ppiankov/vocabcheck/internal/model"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTML renders a verdict as an HTML fragment: emphasized labels, lines
// separated by <br>. All user-supplied text is escaped.
func HTML(v *model.Verdict) string {
	var nodes []*html.Node

	for i, l := range lines(v) {
		if i > 0 {
			nodes = append(nodes, element(atom.Br))
		}
		if l.label != "" {
			strong := element(atom.Strong)
			strong.AppendChild(text(l.label))
			nodes = append(nodes, strong, text(" "+l.text))
			continue
		}
		nodes = append(nodes, text(l.text))
	}

	return renderNodes(nodes)
}

// HTMLFailure renders a failure message as escaped HTML text
func HTMLFailure(err error) string {
	return renderNodes([]*html.Node{text(Failure(err))})
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func renderNodes(nodes []*html.Node) string {
	var buf bytes.Buffer
	for _, n := range nodes {
		// Rendering into a bytes.Buffer cannot fail for these node types
		_ = html.Render(&buf, n)
	}
	return buf.String()
}
