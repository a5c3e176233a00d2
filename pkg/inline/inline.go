// Package inline rewrites remote image references in HTML into embedded data URIs
package inline

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Result is the rewritten document along with what happened to its images
type Result struct {
	HTML    string
	Inlined int
	Skipped int
}

// Inliner fetches every <img src> of a document and embeds it as a data URI
type Inliner struct {
	client *http.Client
	logger *slog.Logger
}

type Option func(*Inliner)

// WithHTTPClient sets the client used to fetch images
func WithHTTPClient(client *http.Client) Option {
	return func(in *Inliner) {
		in.client = client
	}
}

// WithLogger sets the logger used to report fetch failures
func WithLogger(logger *slog.Logger) Option {
	return func(in *Inliner) {
		in.logger = logger
	}
}

func New(opts ...Option) *Inliner {
	in := &Inliner{
		client: http.DefaultClient,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.client == nil {
		in.client = http.DefaultClient
	}
	if in.logger == nil {
		in.logger = slog.Default()
	}

	return in
}

// InlineImages runs a default Inliner over content and returns the rewritten HTML
func InlineImages(ctx context.Context, content string) (string, error) {
	res, err := New().Inline(ctx, content)
	if err != nil {
		return "", err
	}
	return res.HTML, nil
}

// Inline parses content, replaces the src of every image it can fetch with a
// data URI and renders the document back. Images that fail to fetch keep
// their original src.
func (in *Inliner) Inline(ctx context.Context, content string) (*Result, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	res := &Result{}
	for _, img := range findImages(doc) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		src := attr(img, "src")
		dataURI, ok := in.fetch(ctx, src)
		if !ok {
			res.Skipped++
			continue
		}

		setAttr(img, "src", dataURI)
		res.Inlined++
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("failed to render html: %w", err)
	}
	res.HTML = buf.String()

	return res, nil
}

// fetch downloads src and returns it as a data URI. It reports false when the
// image could not be fetched or the server did not answer 200.
func (in *Inliner) fetch(ctx context.Context, src string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		in.logger.Error("Error downloading image", "src", truncate(src), "error", err)
		return "", false
	}

	resp, err := in.client.Do(req)
	if err != nil {
		in.logger.Error("Error downloading image", "src", truncate(src), "error", err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		in.logger.Debug("Image not inlined", "src", truncate(src), "status", resp.StatusCode)
		return "", false
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		in.logger.Error("Error reading image", "src", truncate(src), "error", err)
		return "", false
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return DataURI(contentType, data), true
}

// DataURI formats data as a base64 data URI of the given content type
func DataURI(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func findImages(n *html.Node) []*html.Node {
	var images []*html.Node

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Img {
			images = append(images, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return images
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// truncate keeps data URIs from flooding the log
func truncate(src string) string {
	const limit = 80
	if len(src) <= limit {
		return src
	}
	return src[:limit] + "..."
}
