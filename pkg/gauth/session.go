// Package gauth loads the OAuth client credentials and user token that authorize Google Drive calls
package gauth

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/KyleBrandon/pdfhtml/pkg/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
)

const (
	DefaultCredentialsPath = "credentials.json"
	DefaultTokenPath       = "token.json"
)

// Scopes requested when authorizing. drive.file limits access to files this client creates.
var Scopes = []string{drive.DriveFileScope}

// Paths locates the OAuth client credentials and the persisted user token
type Paths struct {
	Credentials string
	Token       string
}

func DefaultPaths() Paths {
	return Paths{
		Credentials: DefaultCredentialsPath,
		Token:       DefaultTokenPath,
	}
}

// Session is an authorized Google user session
type Session struct {
	config *oauth2.Config
	token  *oauth2.Token
	source oauth2.TokenSource
}

// Load checks the credentials and token files, refreshes an expired token and
// writes it back to paths.Token. The returned session keeps persisting tokens
// it refreshes later on. ctx is used for token refreshes for the whole life of
// the session.
func Load(ctx context.Context, paths Paths, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if !utils.Exists(paths.Credentials) {
		return nil, ErrNotConfigured
	}

	if !utils.Exists(paths.Token) {
		return nil, ErrNotAuthorized
	}

	cfg, err := LoadConfig(paths.Credentials)
	if err != nil {
		return nil, &Error{Kind: KindAuth, Err: err}
	}

	tok, err := ReadToken(paths.Token)
	if err != nil {
		return nil, &Error{Kind: KindAuth, Err: err}
	}

	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, ErrAuthorizationFailed
	}

	if !tok.Valid() {
		logger.Info("Token expired, refreshing", "expiry", tok.Expiry)

		refreshed, err := cfg.TokenSource(ctx, tok).Token()
		if err != nil {
			return nil, &Error{Kind: KindRefresh, Err: err}
		}

		if err := SaveToken(paths.Token, refreshed); err != nil {
			return nil, &Error{Kind: KindRefresh, Err: err}
		}

		tok = refreshed
	}

	return &Session{
		config: cfg,
		token:  tok,
		source: newPersistingTokenSource(cfg.TokenSource(ctx, tok), paths.Token, tok, logger),
	}, nil
}

// LoadConfig reads an OAuth client credentials file as downloaded from the Google Cloud console
func LoadConfig(path string) (*oauth2.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	cfg, err := google.ConfigFromJSON(b, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	return cfg, nil
}

func (s *Session) TokenSource() oauth2.TokenSource {
	return s.source
}

// Token returns the token the session started with
func (s *Session) Token() *oauth2.Token {
	return s.token
}

func (s *Session) Config() *oauth2.Config {
	return s.config
}

// Login runs the installed-app consent flow: it prints the consent URL to out,
// reads the authorization code from in, exchanges it and saves the token to paths.Token.
func Login(ctx context.Context, paths Paths, in io.Reader, out io.Writer) (*oauth2.Token, error) {
	if !utils.Exists(paths.Credentials) {
		return nil, ErrNotConfigured
	}

	cfg, err := LoadConfig(paths.Credentials)
	if err != nil {
		return nil, &Error{Kind: KindAuth, Err: err}
	}

	state, err := newState()
	if err != nil {
		return nil, err
	}

	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Fprintf(out, "Go to the following link in your browser then type the authorization code:\n%s\n", authURL)

	code, err := readCode(in)
	if err != nil {
		return nil, err
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, &Error{Kind: KindAuth, Err: fmt.Errorf("failed to exchange authorization code: %w", err)}
	}

	if err := SaveToken(paths.Token, tok); err != nil {
		return nil, err
	}

	return tok, nil
}

func readCode(in io.Reader) (string, error) {
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read authorization code: %w", err)
		}
		return "", errors.New("no authorization code entered")
	}

	code := strings.TrimSpace(scanner.Text())
	if code == "" {
		return "", errors.New("no authorization code entered")
	}

	return code, nil
}

func newState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(b), nil
}
