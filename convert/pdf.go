package convert

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/crenna/ragpipe/core"
	"github.com/crenna/ragpipe/pipeline"
)

// PDF converts PDF payloads into documents. Text is extracted per page
// and joined with form feeds; the page count is recorded in metadata.
//
// Ports: input "payloads", output "documents".
type PDF struct {
	logger *slog.Logger
}

var _ pipeline.Component = (*PDF)(nil)

// NewPDF creates a PDF converter.
func NewPDF() *PDF {
	return &PDF{logger: slog.Default().With("component", "convert.pdf")}
}

// InputPorts implements pipeline.Component.
func (c *PDF) InputPorts() []string { return []string{"payloads"} }

// OutputPorts implements pipeline.Component.
func (c *PDF) OutputPorts() []string { return []string{"documents"} }

// Run implements pipeline.Component. A payload that fails to convert is
// logged and skipped.
func (c *PDF) Run(ctx context.Context, inputs pipeline.Inputs) (pipeline.Outputs, error) {
	payloads, err := payloadsFrom(inputs)
	if err != nil {
		return nil, err
	}

	docs := make([]*core.Document, 0, len(payloads))
	for _, p := range payloads {
		content, pages, err := extractPDF(p.Data)
		if err != nil {
			c.logger.Warn("pdf conversion failed", "source", p.Source, "error", err)
			continue
		}
		if strings.TrimSpace(content) == "" {
			c.logger.Warn("pdf has no extractable text", "source", p.Source)
			continue
		}
		doc := newDocument(p, content, "", "application/pdf")
		doc.Metadata["pages"] = strconv.Itoa(pages)
		docs = append(docs, doc)
	}

	return pipeline.Outputs{"documents": docs}, nil
}

// extractPDF returns the plain text of all pages and the page count.
func extractPDF(data []byte) (string, int, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("open pdf: %w", err)
	}

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if i > 1 {
			buf.WriteString("\f")
		}
		buf.WriteString(text)
	}
	return buf.String(), numPages, nil
}
