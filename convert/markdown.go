package convert

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/crenna/ragpipe/core"
	"github.com/crenna/ragpipe/pipeline"
)

// Markdown converts Markdown payloads into documents using the goldmark
// AST. Heading markers and inline formatting are stripped; the first
// level-1 heading becomes the title.
//
// Ports: input "payloads", output "documents".
type Markdown struct {
	logger *slog.Logger
}

var _ pipeline.Component = (*Markdown)(nil)

// NewMarkdown creates a Markdown converter.
func NewMarkdown() *Markdown {
	return &Markdown{logger: slog.Default().With("component", "convert.markdown")}
}

// InputPorts implements pipeline.Component.
func (c *Markdown) InputPorts() []string { return []string{"payloads"} }

// OutputPorts implements pipeline.Component.
func (c *Markdown) OutputPorts() []string { return []string{"documents"} }

// Run implements pipeline.Component.
func (c *Markdown) Run(ctx context.Context, inputs pipeline.Inputs) (pipeline.Outputs, error) {
	payloads, err := payloadsFrom(inputs)
	if err != nil {
		return nil, err
	}

	docs := make([]*core.Document, 0, len(payloads))
	for _, p := range payloads {
		content, title := extractMarkdown(p.Data)
		if strings.TrimSpace(content) == "" {
			c.logger.Warn("markdown file has no text", "source", p.Source)
			continue
		}
		docs = append(docs, newDocument(p, content, title, "text/markdown"))
	}

	return pipeline.Outputs{"documents": docs}, nil
}

// extractMarkdown returns the plain text blocks of a markdown source
// and its first level-1 heading.
func extractMarkdown(src []byte) (content, title string) {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var blocks []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			heading := string(node.Text(src))
			if node.Level == 1 && title == "" {
				title = heading
			}
			if heading != "" {
				blocks = append(blocks, heading)
			}
		default:
			if t := extractBlockText(n, src); t != "" {
				blocks = append(blocks, t)
			}
		}
	}

	return strings.Join(blocks, "\n\n"), title
}

// extractBlockText gets the text content of a goldmark AST node.
func extractBlockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else if t := extractBlockText(c, src); t != "" {
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(t)
		}
	}
	return strings.TrimSpace(buf.String())
}
