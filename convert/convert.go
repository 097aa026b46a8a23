package convert

import (
	"fmt"

	"github.com/crenna/ragpipe/core"
	"github.com/crenna/ragpipe/fetch"
	"github.com/crenna/ragpipe/pipeline"
)

// payloadsFrom extracts the "payloads" input that every converter takes.
func payloadsFrom(inputs pipeline.Inputs) ([]*fetch.Payload, error) {
	raw, ok := inputs["payloads"]
	if !ok {
		return nil, fmt.Errorf("missing input: payloads")
	}
	payloads, ok := raw.([]*fetch.Payload)
	if !ok {
		return nil, fmt.Errorf("payloads: expected []*fetch.Payload, got %T", raw)
	}
	return payloads, nil
}

// newDocument builds an unchunked document from converted content.
// Splitting into chunks happens downstream.
func newDocument(p *fetch.Payload, content, title, format string) *core.Document {
	contentType := p.ContentType
	if contentType == "" {
		contentType = format
	}
	return &core.Document{
		Content: content,
		Source:  p.Source,
		Title:   title,
		Metadata: map[string]string{
			"content_type": contentType,
		},
	}
}
