package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/KyleBrandon/pdfhtml/pkg/convert"
	"github.com/KyleBrandon/pdfhtml/pkg/gauth"
	"github.com/KyleBrandon/pdfhtml/pkg/pdfmcp"
	"github.com/KyleBrandon/pdfhtml/pkg/utils"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
)

type serverConfig struct {
	credentialsPath string
	tokenPath       string
	rootDir         string
	folderID        string
	logLevel        string
	logFile         string
}

// parseConfig reads flags, falling back to the environment for anything not given on the command line
func parseConfig(args []string, getenv func(string) string, output io.Writer) (serverConfig, error) {
	var cfg serverConfig

	fs := flag.NewFlagSet("pdfserver", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.credentialsPath, "credentials", "", "Path to the Google OAuth client credentials JSON file (default credentials.json)")
	fs.StringVar(&cfg.tokenPath, "token", "", "Path to the authorized user token JSON file (default token.json)")
	fs.StringVar(&cfg.rootDir, "root", "", "Directory PDF paths are resolved in (default current directory)")
	fs.StringVar(&cfg.folderID, "folder-id", "", "Google Drive folder ID to upload into (optional)")
	fs.StringVar(&cfg.logLevel, "log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	fs.StringVar(&cfg.logFile, "log-file", "", "Log file path (optional, logs to stderr if not specified)")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	// Get values from environment if not provided via flags
	if cfg.credentialsPath == "" {
		cfg.credentialsPath = getenv("GOOGLE_OAUTH_CREDENTIALS")
	}
	if cfg.tokenPath == "" {
		cfg.tokenPath = getenv("GOOGLE_OAUTH_TOKEN")
	}
	if cfg.rootDir == "" {
		cfg.rootDir = getenv("PDFHTML_ROOT")
	}
	if cfg.folderID == "" {
		cfg.folderID = getenv("GCP_FOLDER_ID")
	}

	if cfg.credentialsPath == "" {
		cfg.credentialsPath = gauth.DefaultCredentialsPath
	}
	if cfg.tokenPath == "" {
		cfg.tokenPath = gauth.DefaultTokenPath
	}
	if cfg.rootDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return cfg, fmt.Errorf("failed to resolve working directory: %w", err)
		}
		cfg.rootDir = wd
	}

	return cfg, nil
}

func main() {
	// Load environment variables if available
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables and command line args")
	}

	cfg, err := parseConfig(os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	logOutput, closeLog, err := utils.OpenLogFile(cfg.logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	logger := utils.ConfigureLogging(cfg.logLevel, logOutput)

	ctx := context.Background()

	logger.Info("Starting PDF HTML MCP Server",
		"credentials", cfg.credentialsPath,
		"token", cfg.tokenPath,
		"root", cfg.rootDir,
		"folder_id", cfg.folderID,
		"log_level", cfg.logLevel)

	pdfServer := pdfmcp.NewPDFServer(ctx, cfg.rootDir, convert.Config{
		Paths: gauth.Paths{
			Credentials: cfg.credentialsPath,
			Token:       cfg.tokenPath,
		},
		FolderID: cfg.folderID,
		Logger:   logger,
	})

	// Run the MCP server
	if err := server.ServeStdio(pdfServer.McpServer); err != nil {
		logger.Error("PDF HTML MCP Server failed", "error", err)
		os.Exit(1)
	}
}
