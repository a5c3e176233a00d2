// Package gdrive implements the document operations used for conversion on top of the Google Drive v3 API
package gdrive

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	// GoogleDocMimeType asks Drive to convert the upload into a Google Docs document
	GoogleDocMimeType = "application/vnd.google-apps.document"
	PDFMimeType       = "application/pdf"
	HTMLMimeType      = "text/html"
)

// Service creates, exports and deletes Drive documents
type Service struct {
	driveService *drive.Service
	folderID     string
	logger       *slog.Logger
}

// NewService builds the Drive client. Callers pass option.WithTokenSource for
// a user session, or option.WithHTTPClient/option.WithEndpoint in tests.
func NewService(ctx context.Context, logger *slog.Logger, opts ...option.ClientOption) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &Service{
		driveService: driveService,
		logger:       logger,
	}, nil
}

// WithFolder uploads into folderID instead of the Drive root
func (s *Service) WithFolder(folderID string) *Service {
	s.folderID = folderID
	return s
}

// Create uploads media as a Google Docs document named name and returns its file id.
// media is rewound before the upload so a failed attempt can be retried with the same reader.
func (s *Service) Create(ctx context.Context, name string, media io.ReadSeeker) (string, error) {
	if _, err := media.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind upload: %w", err)
	}

	file := &drive.File{
		Name:     name,
		MimeType: GoogleDocMimeType,
	}
	if s.folderID != "" {
		file.Parents = []string{s.folderID}
	}

	created, err := s.driveService.Files.
		Create(file).
		Media(media, googleapi.ContentType(PDFMimeType)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}

	s.logger.Debug("Created Drive document", "name", name, "file_id", created.Id)

	return created.Id, nil
}

// Export requests the document in mimeType and returns the streaming body
func (s *Service) Export(ctx context.Context, fileID, mimeType string) (io.ReadCloser, error) {
	resp, err := s.driveService.Files.
		Export(fileID, mimeType).
		Context(ctx).
		Download()
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}

func (s *Service) Delete(ctx context.Context, fileID string) error {
	return s.driveService.Files.
		Delete(fileID).
		Context(ctx).
		Do()
}
