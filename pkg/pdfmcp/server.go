// Package pdfmcp provides an MCP server exposing PDF to HTML conversion as tools
package pdfmcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/KyleBrandon/pdfhtml/pkg/convert"
	"github.com/KyleBrandon/pdfhtml/pkg/dto"
	"github.com/KyleBrandon/pdfhtml/pkg/inline"
	"github.com/KyleBrandon/pdfhtml/pkg/utils"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type convertFunc func(ctx context.Context, pdfPath string) (*dto.Conversion, error)

type PDFServer struct {
	ctx       context.Context
	McpServer *server.MCPServer
	rootDir   string
	convert   convertFunc
	inliner   *inline.Inliner
	logger    *slog.Logger
}

// Request types for MCP tools
type ConvertPDFToHTMLRequest struct {
	FilePath string `json:"file_path" mcp:"Path of the PDF file, relative to the server root"`
}

type InlineHTMLImagesRequest struct {
	HTML string `json:"html" mcp:"HTML document whose images should be embedded"`
}

// NewPDFServer creates the MCP server. PDF paths given to the tools are resolved inside rootDir.
func NewPDFServer(ctx context.Context, rootDir string, cfg convert.Config) *PDFServer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ps := &PDFServer{
		ctx:     ctx,
		rootDir: rootDir,
		convert: func(ctx context.Context, pdfPath string) (*dto.Conversion, error) {
			return convert.ConvertFile(ctx, pdfPath, cfg)
		},
		inliner: inline.New(inline.WithHTTPClient(cfg.ImageClient), inline.WithLogger(logger)),
		logger:  logger,
	}

	ps.McpServer = server.NewMCPServer("pdf-html-server", "v1.0.0",
		server.WithToolCapabilities(true))
	ps.addTools()

	return ps
}

func (ps *PDFServer) addTools() {
	convertTool := mcp.NewTool(
		"convert_pdf_to_html",
		mcp.WithDescription("Convert a local PDF to self-contained HTML using Google Drive; images are embedded as data URIs"),
		mcp.WithString("file_path", mcp.Description("Path of the PDF file, relative to the server root"), mcp.Required()),
	)
	ps.McpServer.AddTool(convertTool, mcp.NewTypedToolHandler(ps.ConvertPDFToHTML))

	inlineTool := mcp.NewTool(
		"inline_html_images",
		mcp.WithDescription("Replace every remote <img src> in an HTML document with an embedded data URI"),
		mcp.WithString("html", mcp.Description("HTML document whose images should be embedded"), mcp.Required()),
	)
	ps.McpServer.AddTool(inlineTool, mcp.NewTypedToolHandler(ps.InlineHTMLImages))
}

// ConvertPDFToHTML returns the converted HTML followed by a JSON summary of the conversion
func (ps *PDFServer) ConvertPDFToHTML(ctx context.Context, request mcp.CallToolRequest, params ConvertPDFToHTMLRequest) (*mcp.CallToolResult, error) {
	fullPath, err := utils.ValidatePath(ps.rootDir, params.FilePath)
	if err != nil {
		ps.logger.Error("Failed to validate path", "path", params.FilePath, "error", err)
		return errorResult(fmt.Sprintf("Invalid file path: %v", err)), nil
	}

	info, err := utils.Stat(fullPath)
	if err != nil {
		return errorResult(fmt.Sprintf("File not found: %s", params.FilePath)), nil
	}
	if info.IsDir() {
		return errorResult(fmt.Sprintf("Path is a directory, not a file: %s", params.FilePath)), nil
	}

	result, err := ps.convert(ctx, fullPath)
	if err != nil {
		ps.logger.Error("Conversion failed", "path", fullPath, "error", err)
		return errorResult(err.Error()), nil
	}

	summaryJSON, _ := json.MarshalIndent(result.Summary(), "", "  ")

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(result.HTML),
			mcp.NewTextContent(string(summaryJSON)),
		},
	}, nil
}

func (ps *PDFServer) InlineHTMLImages(ctx context.Context, request mcp.CallToolRequest, params InlineHTMLImagesRequest) (*mcp.CallToolResult, error) {
	if params.HTML == "" {
		return errorResult("html is required"), nil
	}

	res, err := ps.inliner.Inline(ctx, params.HTML)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to inline images: %v", err)), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(res.HTML),
		},
	}, nil
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}
