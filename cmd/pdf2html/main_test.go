package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/KyleBrandon/pdfhtml/pkg/convert"
	"github.com/KyleBrandon/pdfhtml/pkg/gauth"
	"github.com/spf13/viper"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(append(args, "--log-level", "ERROR"))

	err := rootCmd.Execute()
	return out.String(), err
}

func TestInlineCommand(t *testing.T) {
	images := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/gif")
		w.Write([]byte("gif"))
	}))
	defer images.Close()

	dir := t.TempDir()
	page := filepath.Join(dir, "page.html")
	if err := os.WriteFile(page, []byte(`<p>hi</p><img src="`+images.URL+`/x.gif">`), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("stdout", func(t *testing.T) {
		out, err := execute(t, "inline", page, "--output", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, `src="data:image/gif;base64,Z2lm"`) {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("output file", func(t *testing.T) {
		target := filepath.Join(dir, "out", "page.html")
		if _, err := execute(t, "inline", page, "-o", target); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(target)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "data:image/gif;base64,") {
			t.Errorf("file content = %q", data)
		}
	})

	t.Run("missing input", func(t *testing.T) {
		if _, err := execute(t, "inline", filepath.Join(dir, "nope.html"), "--output", ""); err == nil {
			t.Error("expected error")
		}
	})
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing pdf", func(t *testing.T) {
		_, err := execute(t, "convert", filepath.Join(dir, "nope.pdf"), "--output", "")
		if !errors.Is(err, convert.ErrNoFile) {
			t.Errorf("err = %v, want %v", err, convert.ErrNoFile)
		}
	})

	t.Run("not configured", func(t *testing.T) {
		pdf := filepath.Join(dir, "doc.pdf")
		if err := os.WriteFile(pdf, []byte("%PDF-1.4"), 0644); err != nil {
			t.Fatal(err)
		}

		_, err := execute(t, "convert", pdf, "--output", "",
			"--credentials", filepath.Join(dir, "credentials.json"),
			"--token", filepath.Join(dir, "token.json"))
		if !errors.Is(err, gauth.ErrNotConfigured) {
			t.Errorf("err = %v, want %v", err, gauth.ErrNotConfigured)
		}
	})

	t.Run("wrong arg count", func(t *testing.T) {
		if _, err := execute(t, "convert"); err == nil {
			t.Error("expected error")
		}
	})
}

func TestAuthCommand_NotConfigured(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "auth",
		"--credentials", filepath.Join(dir, "credentials.json"),
		"--token", filepath.Join(dir, "token.json"))
	if !errors.Is(err, gauth.ErrNotConfigured) {
		t.Errorf("err = %v, want %v", err, gauth.ErrNotConfigured)
	}
}

func TestConversionConfig(t *testing.T) {
	t.Cleanup(func() {
		viper.Set("folder_id", "")
		viper.Set("retry_attempts", 0)
		viper.Set("retry_delay", 0)
	})

	viper.Set("folder_id", "folder-9")
	viper.Set("retry_attempts", 3)
	viper.Set("retry_delay", "500ms")

	cfg := conversionConfig()
	if cfg.FolderID != "folder-9" {
		t.Errorf("folder = %q", cfg.FolderID)
	}
	want := convert.RetryPolicy{Attempts: 3, Delay: 500 * time.Millisecond}
	if cfg.Retry != want {
		t.Errorf("retry = %+v, want %+v", cfg.Retry, want)
	}

	viper.Set("retry_attempts", 0)
	if cfg := conversionConfig(); cfg.Retry != (convert.RetryPolicy{}) {
		t.Errorf("retry should fall back to the default policy, got %+v", cfg.Retry)
	}
}
