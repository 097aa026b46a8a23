package convert

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/crenna/ragpipe/core"
	"github.com/crenna/ragpipe/pipeline"
)

// Text converts plain-text payloads into documents. It is the fallback
// for any format the router does not recognize.
//
// Ports: input "payloads", output "documents".
type Text struct {
	logger *slog.Logger
}

var _ pipeline.Component = (*Text)(nil)

// NewText creates a Text converter.
func NewText() *Text {
	return &Text{logger: slog.Default().With("component", "convert.text")}
}

// InputPorts implements pipeline.Component.
func (c *Text) InputPorts() []string { return []string{"payloads"} }

// OutputPorts implements pipeline.Component.
func (c *Text) OutputPorts() []string { return []string{"documents"} }

// Run implements pipeline.Component.
func (c *Text) Run(ctx context.Context, inputs pipeline.Inputs) (pipeline.Outputs, error) {
	payloads, err := payloadsFrom(inputs)
	if err != nil {
		return nil, err
	}

	docs := make([]*core.Document, 0, len(payloads))
	for _, p := range payloads {
		if !utf8.Valid(p.Data) {
			c.logger.Warn("payload is not valid UTF-8 text", "source", p.Source)
			continue
		}
		content := strings.TrimSpace(string(p.Data))
		if content == "" {
			c.logger.Warn("text file is empty", "source", p.Source)
			continue
		}
		docs = append(docs, newDocument(p, content, "", "text/plain"))
	}

	return pipeline.Outputs{"documents": docs}, nil
}
