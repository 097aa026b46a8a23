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
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/crenna/ragpipe/core"
	"github.com/crenna/ragpipe/pipeline"
)

// HTML converts HTML payloads into documents. It extracts the page
// title from the <title> tag and the readable text from the body,
// skipping boilerplate elements.
//
// Ports: input "payloads", output "documents".
type HTML struct {
	logger *slog.Logger
}

var _ pipeline.Component = (*HTML)(nil)

// NewHTML creates an HTML converter.
func NewHTML() *HTML {
	return &HTML{logger: slog.Default().With("component", "convert.html")}
}

// InputPorts implements pipeline.Component.
func (c *HTML) InputPorts() []string { return []string{"payloads"} }

// OutputPorts implements pipeline.Component.
func (c *HTML) OutputPorts() []string { return []string{"documents"} }

// Run implements pipeline.Component. A payload that fails to convert is
// logged and skipped so one bad page does not abort the batch.
func (c *HTML) Run(ctx context.Context, inputs pipeline.Inputs) (pipeline.Outputs, error) {
	payloads, err := payloadsFrom(inputs)
	if err != nil {
		return nil, err
	}

	docs := make([]*core.Document, 0, len(payloads))
	for _, p := range payloads {
		content, title, err := extractHTML(p.Data)
		if err != nil {
			c.logger.Warn("html conversion failed", "source", p.Source, "error", err)
			continue
		}
		if strings.TrimSpace(content) == "" {
			c.logger.Warn("html page has no extractable text", "source", p.Source)
			continue
		}
		docs = append(docs, newDocument(p, content, title, "text/html"))
	}

	return pipeline.Outputs{"documents": docs}, nil
}

// extractHTML returns the readable text and the page title.
func extractHTML(data []byte) (content, title string, err error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("parse html: %w", err)
	}

	title = findTitle(doc)

	var blocks []string
	root := findBody(doc)
	if root == nil {
		root = doc
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			// Skip non-content elements
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "p", "li", "td", "blockquote", "pre",
				"h1", "h2", "h3", "h4", "h5", "h6":
				if t := textContent(n); t != "" {
					blocks = append(blocks, t)
				}
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)

	if len(blocks) == 0 {
		// Fallback for pages without block structure
		if t := textContent(root); t != "" {
			blocks = append(blocks, t)
		}
	}

	return strings.Join(blocks, "\n\n"), title, nil
}

// textContent collects the text nodes under n.
func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
