package gauth

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/oauth2"
)

// ReadToken decodes an oauth2 token from the token file
func ReadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var tok *oauth2.Token
	if err := json.NewDecoder(f).Decode(&tok); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	if tok == nil {
		tok = &oauth2.Token{}
	}

	return tok, nil
}

// SaveToken overwrites the token file in place
func SaveToken(path string, tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}

	return nil
}

// persistingTokenSource writes every newly minted token back to the token file
type persistingTokenSource struct {
	mu     sync.Mutex
	base   oauth2.TokenSource
	path   string
	last   string
	logger *slog.Logger
}

func newPersistingTokenSource(base oauth2.TokenSource, path string, current *oauth2.Token, logger *slog.Logger) *persistingTokenSource {
	return &persistingTokenSource{
		base:   base,
		path:   path,
		last:   current.AccessToken,
		logger: logger,
	}
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tok, err := p.base.Token()
	if err != nil {
		return nil, err
	}

	if tok.AccessToken != p.last {
		if err := SaveToken(p.path, tok); err != nil {
			// the refreshed token is still usable for this session
			p.logger.Error("Failed to persist refreshed token", "path", p.path, "error", err)
		} else {
			p.logger.Debug("Persisted refreshed token", "path", p.path, "expiry", tok.Expiry)
		}
		p.last = tok.AccessToken
	}

	return tok, nil
}
