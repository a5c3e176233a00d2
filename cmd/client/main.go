package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/KyleBrandon/pdfhtml/pkg/dto"
	"github.com/KyleBrandon/pdfhtml/pkg/utils"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

func main() {
	// Define command line flags
	server := flag.String("server", "", "Server command to execute")
	pdfPath := flag.String("pdf", "", "PDF path, relative to the server root")
	outPath := flag.String("out", "", "File to write the HTML to (prints to stdout if not specified)")
	flag.Parse()

	if *server == "" || *pdfPath == "" {
		fmt.Println("Error: You must specify the --server <server> --pdf <file.pdf>")
		flag.Usage()
		os.Exit(1)
	}

	// Create a context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fmt.Fprintln(os.Stderr, "Initializing stdio client...")

	serverArgs := strings.Fields(*server)
	c, err := client.NewStdioMCPClient(serverArgs[0], nil, serverArgs[1:]...)
	if err != nil {
		slog.Error("Failed to create new client", "error", err)
		os.Exit(1)
	}
	defer c.Close()

	initRequest := mcp.InitializeRequest{}
	initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initRequest.Params.ClientInfo = mcp.Implementation{
		Name:    "pdfhtml-client",
		Version: "1.0.0",
	}

	initResult, err := c.Initialize(ctx, initRequest)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	fmt.Fprintf(os.Stderr,
		"Initialized with server: %s %s\n",
		initResult.ServerInfo.Name,
		initResult.ServerInfo.Version,
	)

	req := mcp.CallToolRequest{}
	req.Params.Name = "convert_pdf_to_html"
	req.Params.Arguments = map[string]any{"file_path": *pdfPath}

	result, err := c.CallTool(ctx, req)
	if err != nil {
		slog.Error("Failed to convert the PDF", "error", err)
		os.Exit(1)
	}

	html, summary, err := parseConvertResult(result)
	if err != nil {
		slog.Error("Conversion failed", "error", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Converted %s: %d pages, %d bytes, %d images inlined, %d skipped\n",
		summary.Source, summary.Pages, summary.Bytes, summary.ImagesInlined, summary.ImagesSkipped)

	if *outPath == "" {
		fmt.Println(html)
		return
	}

	if err := utils.WriteFile(*outPath, []byte(html), 0644); err != nil {
		slog.Error("Failed to save the HTML file", "path", *outPath, "error", err)
		os.Exit(1)
	}
}

// parseConvertResult splits a convert_pdf_to_html result into the HTML and its summary
func parseConvertResult(result *mcp.CallToolResult) (string, dto.Conversion, error) {
	var summary dto.Conversion

	texts := make([]string, 0, len(result.Content))
	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			texts = append(texts, textContent.Text)
		}
	}

	if result.IsError {
		if len(texts) > 0 {
			return "", summary, errors.New(texts[0])
		}
		return "", summary, errors.New("tool returned an error")
	}

	if len(texts) < 2 {
		return "", summary, fmt.Errorf("expected html and summary, got %d text items", len(texts))
	}

	if err := json.Unmarshal([]byte(texts[1]), &summary); err != nil {
		return "", summary, fmt.Errorf("failed to unmarshal the summary: %w", err)
	}

	return texts[0], summary, nil
}
