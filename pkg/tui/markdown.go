package tui

import (
	"strings"

	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
	"github.com/rivo/tview"
)

// Style markers inserted while walking the AST. The assembled text is
// escaped as a whole before the markers become real tview tags, so
// tag-like sequences in answer text can never reach the terminal as live
// style tags, even when the parser splits them across text nodes.
const (
	markBoldOn    = "\x02"
	markBoldOff   = "\x03"
	markItalicOn  = "\x04"
	markItalicOff = "\x05"
	markCodeOn    = "\x06"
	markCodeOff   = "\x0e"
)

var markReplacer = strings.NewReplacer(
	markBoldOn, "[::b]",
	markBoldOff, "[::-]",
	markItalicOn, "[::i]",
	markItalicOff, "[::-]",
	markCodeOn, "[yellow]",
	markCodeOff, "[-]",
)

// renderMarkdown converts trusted server Markdown into tview style tags.
// This is the only path that produces styled transcript text; everything
// else goes through tview.Escape. The tag subset is deliberately narrow:
// bold, italics, inline/block code, bullets, headings and link targets.
func renderMarkdown(src string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse([]byte(src))

	var b strings.Builder
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		switch n := node.(type) {
		case *ast.Text:
			if entering {
				b.Write(n.Literal)
			}
		case *ast.Strong:
			if entering {
				b.WriteString(markBoldOn)
			} else {
				b.WriteString(markBoldOff)
			}
		case *ast.Emph:
			if entering {
				b.WriteString(markItalicOn)
			} else {
				b.WriteString(markItalicOff)
			}
		case *ast.Code:
			if entering {
				b.WriteString(markCodeOn)
				b.Write(n.Literal)
				b.WriteString(markCodeOff)
			}
		case *ast.CodeBlock:
			if entering {
				b.WriteString(markCodeOn)
				b.WriteString(strings.TrimRight(string(n.Literal), "\n"))
				b.WriteString(markCodeOff)
				b.WriteString("\n\n")
			}
		case *ast.Heading:
			if entering {
				b.WriteString(markBoldOn)
			} else {
				b.WriteString(markBoldOff)
				b.WriteString("\n\n")
			}
		case *ast.Paragraph:
			if !entering {
				if _, inItem := n.GetParent().(*ast.ListItem); !inItem {
					b.WriteString("\n\n")
				}
			}
		case *ast.ListItem:
			if entering {
				b.WriteString("• ")
			} else {
				b.WriteString("\n")
			}
		case *ast.List:
			if !entering {
				b.WriteString("\n")
			}
		case *ast.Link:
			if !entering && len(n.Destination) > 0 {
				b.WriteString(" (")
				b.Write(n.Destination)
				b.WriteString(")")
			}
		case *ast.Hardbreak:
			if entering {
				b.WriteString("\n")
			}
		}
		return ast.GoToNext
	})

	out := tview.Escape(strings.TrimSpace(b.String()))
	return markReplacer.Replace(out)
}
