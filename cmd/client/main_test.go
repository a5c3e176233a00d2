package main

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func TestParseConvertResult(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		result := &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent("<p>doc</p>"),
				mcp.NewTextContent(`{"source":"a.pdf","pages":4,"bytes":10,"images_inlined":1,"images_skipped":0}`),
			},
		}

		html, summary, err := parseConvertResult(result)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if html != "<p>doc</p>" {
			t.Errorf("html = %q", html)
		}
		if summary.Source != "a.pdf" || summary.Pages != 4 || summary.ImagesInlined != 1 {
			t.Errorf("summary = %+v", summary)
		}
	})

	t.Run("tool error", func(t *testing.T) {
		result := &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{mcp.NewTextContent("Google Drive not authorized")},
		}

		_, _, err := parseConvertResult(result)
		if err == nil || err.Error() != "Google Drive not authorized" {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("missing summary", func(t *testing.T) {
		result := &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent("<p>doc</p>")},
		}

		if _, _, err := parseConvertResult(result); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("bad summary", func(t *testing.T) {
		result := &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent("<p>doc</p>"), mcp.NewTextContent("not json")},
		}

		if _, _, err := parseConvertResult(result); err == nil {
			t.Error("expected error")
		}
	})
}
