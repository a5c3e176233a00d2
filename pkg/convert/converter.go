// Package convert turns a local PDF into self-contained HTML using Google Drive's document conversion
package convert

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/KyleBrandon/pdfhtml/pkg/dto"
	"github.com/KyleBrandon/pdfhtml/pkg/gdrive"
	"github.com/KyleBrandon/pdfhtml/pkg/inline"
)

const (
	downloadChunkSize = 1 << 20
	releaseTimeout    = 30 * time.Second
)

// DocumentService is the remote side of a conversion: Create uploads and
// converts, Export renders the converted document, Delete removes it.
type DocumentService interface {
	Create(ctx context.Context, name string, media io.ReadSeeker) (string, error)
	Export(ctx context.Context, fileID, mimeType string) (io.ReadCloser, error)
	Delete(ctx context.Context, fileID string) error
}

type ImageInliner interface {
	Inline(ctx context.Context, content string) (*inline.Result, error)
}

// Converter uploads a PDF, exports the converted document as HTML and inlines its images
type Converter struct {
	service   DocumentService
	inliner   ImageInliner
	retry     RetryPolicy
	logger    *slog.Logger
	sleep     sleepFunc
	preflight func(path string) (int, error)
}

type Option func(*Converter)

// WithRetryPolicy sets the policy for the upload and create calls. Export,
// download and delete are never retried.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Converter) {
		c.retry = p
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithInliner(inliner ImageInliner) Option {
	return func(c *Converter) {
		if inliner != nil {
			c.inliner = inliner
		}
	}
}

func New(service DocumentService, opts ...Option) *Converter {
	c := &Converter{
		service:   service,
		retry:     DefaultRetryPolicy,
		logger:    slog.Default(),
		sleep:     sleepContext,
		preflight: PageCount,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.inliner == nil {
		c.inliner = inline.New(inline.WithLogger(c.logger))
	}

	return c
}

// Convert runs one conversion. The Drive document it creates is deleted
// before Convert returns, whatever the outcome; a failed delete is only logged.
// Image inlining failures are logged and the exported HTML is returned as is.
func (c *Converter) Convert(ctx context.Context, path string) (*dto.Conversion, error) {
	result := &dto.Conversion{Source: path}

	if pages, err := c.preflight(path); err != nil {
		c.logger.Warn("PDF preflight failed, uploading anyway", "path", path, "error", err)
	} else {
		result.Pages = pages
	}

	var media *os.File
	err := c.retry.do(ctx, c.logger, "open upload", c.sleep, func() error {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		media = f
		return nil
	})
	if err != nil {
		return nil, &Error{Stage: StageUpload, Err: err}
	}
	defer media.Close()

	name := filepath.Base(path)
	var fileID string
	err = c.retry.do(ctx, c.logger, "create", c.sleep, func() error {
		id, err := c.service.Create(ctx, name, media)
		if err != nil {
			return err
		}
		fileID = id
		return nil
	})
	if err != nil {
		return nil, &Error{Stage: StageCreate, Err: err}
	}

	if fileID == "" {
		return nil, ErrNoFile
	}
	result.FileID = fileID
	defer c.release(ctx, fileID)

	content, err := c.export(ctx, fileID)
	if err != nil {
		return nil, err
	}

	inlined, err := c.inliner.Inline(ctx, content)
	if err != nil {
		c.logger.Error("Failed to inline images", "file_id", fileID, "error", err)
	} else {
		content = inlined.HTML
		result.ImagesInlined = inlined.Inlined
		result.ImagesSkipped = inlined.Skipped
	}

	result.HTML = content
	result.Bytes = len(content)

	c.logger.Info("Converted PDF", "path", path, "file_id", fileID, "pages", result.Pages,
		"bytes", result.Bytes, "images_inlined", result.ImagesInlined, "images_skipped", result.ImagesSkipped)

	return result, nil
}

// export downloads the document as HTML in chunks and checks it is UTF-8
func (c *Converter) export(ctx context.Context, fileID string) (string, error) {
	body, err := c.service.Export(ctx, fileID, gdrive.HTMLMimeType)
	if err != nil {
		c.logger.Error("Drive export failed", "file_id", fileID, "error", err)
		return "", &Error{Stage: StageExport, Err: err}
	}
	defer body.Close()

	var buf bytes.Buffer
	chunk := make([]byte, downloadChunkSize)
	for {
		n, err := body.Read(chunk)
		buf.Write(chunk[:n])
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			c.logger.Error("Drive download failed", "file_id", fileID, "error", err)
			return "", &Error{Stage: StageDownload, Err: err}
		}
		c.logger.Debug("Downloaded chunk", "file_id", fileID, "bytes", buf.Len())
	}

	if !utf8.Valid(buf.Bytes()) {
		return "", &Error{Stage: StageDecode, Err: errors.New("export is not valid UTF-8")}
	}

	return buf.String(), nil
}

// release deletes the remote document even when ctx has been cancelled
func (c *Converter) release(ctx context.Context, fileID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if err := c.service.Delete(ctx, fileID); err != nil {
		c.logger.Error("Failed to delete Drive document", "file_id", fileID, "error", err)
		return
	}

	c.logger.Debug("Deleted Drive document", "file_id", fileID)
}
