package convert

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/KyleBrandon/pdfhtml/pkg/dto"
	"github.com/KyleBrandon/pdfhtml/pkg/gauth"
	"github.com/KyleBrandon/pdfhtml/pkg/gdrive"
	"github.com/KyleBrandon/pdfhtml/pkg/inline"
	"google.golang.org/api/option"
)

// Config wires a full conversion from credential files to HTML
type Config struct {
	Paths    gauth.Paths
	FolderID string
	Retry    RetryPolicy
	Logger   *slog.Logger

	// ImageClient fetches images while inlining; http.DefaultClient when nil
	ImageClient *http.Client

	// DriveOptions are appended after the session token source
	DriveOptions []option.ClientOption
}

// ConvertFile authorizes against Google Drive with the configured credential
// files and converts the PDF at pdfPath. Session errors are the gauth
// sentinels and *gauth.Error; everything after is a *convert.Error or ErrNoFile.
func ConvertFile(ctx context.Context, pdfPath string, cfg Config) (*dto.Conversion, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sess, err := gauth.Load(ctx, cfg.Paths, logger)
	if err != nil {
		logger.Error("Google Drive session failed", "error", err)
		return nil, err
	}

	opts := append([]option.ClientOption{option.WithTokenSource(sess.TokenSource())}, cfg.DriveOptions...)
	svc, err := gdrive.NewService(ctx, logger, opts...)
	if err != nil {
		return nil, &Error{Stage: StageService, Err: err}
	}
	svc.WithFolder(cfg.FolderID)

	retry := cfg.Retry
	if retry.Attempts == 0 {
		retry = DefaultRetryPolicy
	}

	inliner := inline.New(inline.WithHTTPClient(cfg.ImageClient), inline.WithLogger(logger))
	conv := New(svc, WithRetryPolicy(retry), WithLogger(logger), WithInliner(inliner))

	return conv.Convert(ctx, pdfPath)
}
