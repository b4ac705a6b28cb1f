package formats

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ExtractMarkdownTitle parses a markdown document and returns the text of
// its first level-1 heading, or the first heading of any level when no H1
// exists. Used to populate document titles for chunking.
func ExtractMarkdownTitle(data []byte) string {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(data))

	firstHeading := ""
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		heading, ok := node.(*ast.Heading)
		if !ok {
			continue
		}
		title := headingText(heading, data)
		if title == "" {
			continue
		}
		if heading.Level == 1 {
			return title
		}
		if firstHeading == "" {
			firstHeading = title
		}
	}
	return firstHeading
}

func headingText(heading *ast.Heading, source []byte) string {
	var out []byte
	for child := heading.FirstChild(); child != nil; child = child.NextSibling() {
		if textNode, ok := child.(*ast.Text); ok {
			out = append(out, textNode.Segment.Value(source)...)
		}
	}
	return string(out)
}
