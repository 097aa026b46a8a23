// Copyright 2026 Crenna Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/crenna/ragpipe/fetch"
	"github.com/crenna/ragpipe/pipeline"
)

// Format names double as Router output port names.
const (
	FormatHTML     = "html"
	FormatPDF      = "pdf"
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

// Router dispatches raw payloads to format-specific converters. The
// MIME type reported by the fetcher wins; the file extension is the
// fallback. Anything unrecognized is treated as plain text.
//
// Ports: input "payloads" ([]*fetch.Payload), one output port per
// format, each carrying []*fetch.Payload.
type Router struct{}

var _ pipeline.Component = (*Router)(nil)

// NewRouter creates a Router.
func NewRouter() *Router {
	return &Router{}
}

// InputPorts implements pipeline.Component.
func (r *Router) InputPorts() []string { return []string{"payloads"} }

// OutputPorts implements pipeline.Component.
func (r *Router) OutputPorts() []string {
	return []string{FormatHTML, FormatPDF, FormatMarkdown, FormatText}
}

// Run implements pipeline.Component.
func (r *Router) Run(ctx context.Context, inputs pipeline.Inputs) (pipeline.Outputs, error) {
	raw, ok := inputs["payloads"]
	if !ok {
		return nil, fmt.Errorf("missing input: payloads")
	}
	payloads, ok := raw.([]*fetch.Payload)
	if !ok {
		return nil, fmt.Errorf("payloads: expected []*fetch.Payload, got %T", raw)
	}

	buckets := map[string][]*fetch.Payload{
		FormatHTML:     {},
		FormatPDF:      {},
		FormatMarkdown: {},
		FormatText:     {},
	}
	for _, p := range payloads {
		format := FormatFor(p.ContentType, p.Source)
		buckets[format] = append(buckets[format], p)
	}

	return pipeline.Outputs{
		FormatHTML:     buckets[FormatHTML],
		FormatPDF:      buckets[FormatPDF],
		FormatMarkdown: buckets[FormatMarkdown],
		FormatText:     buckets[FormatText],
	}, nil
}

// FormatFor decides the document format from a MIME type and a source
// name.
func FormatFor(contentType, source string) string {
	switch contentType {
	case "text/html", "application/xhtml+xml":
		return FormatHTML
	case "application/pdf":
		return FormatPDF
	case "text/markdown":
		return FormatMarkdown
	case "text/plain":
		return FormatText
	}

	// Strip URL query strings before looking at the extension
	name := source
	if idx := strings.IndexAny(name, "?#"); idx >= 0 {
		name = name[:idx]
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		return FormatHTML
	case ".pdf":
		return FormatPDF
	case ".md", ".markdown":
		return FormatMarkdown
	default:
		return FormatText
	}
}
