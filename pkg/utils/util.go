// Package utils contains logging setup and file system helpers shared by the binaries
package utils

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ParseLogLevel maps a level name to a slog.Level, defaulting to INFO
func ParseLogLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ConfigureLogging installs a JSON slog handler writing to w as the default logger and returns it
func ConfigureLogging(level string, w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLogLevel(level),
	})

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// OpenLogFile opens the log file for appending, or returns stderr when path is empty.
// The returned close function is always safe to call.
func OpenLogFile(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stderr, func() error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return f, f.Close, nil
}

// ValidatePath ensures the path is within the root directory
func ValidatePath(rootDir, inputPath string) (string, error) {
	if inputPath == "" {
		return "", fmt.Errorf("path is empty")
	}

	// Convert relative path to absolute path within root
	var fullPath string
	if filepath.IsAbs(inputPath) {
		slog.Debug("input path is absolute path", "inputPath", inputPath)
		fullPath = inputPath
	} else {
		fullPath = filepath.Join(rootDir, inputPath)
		slog.Debug("input path is relative", "inputPath", inputPath, "fullPath", fullPath)
	}

	fullPath = filepath.Clean(fullPath)
	rootDir = filepath.Clean(rootDir)

	// Ensure the path is within the root directory
	rel, err := filepath.Rel(rootDir, fullPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path is outside root directory: %s", inputPath)
	}

	return fullPath, nil
}

func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func WriteFile(path string, data []byte, perm fs.FileMode) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, perm)
}
