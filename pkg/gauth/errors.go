package gauth

import "errors"

var (
	ErrNotConfigured       = errors.New("Google Drive not configured")
	ErrNotAuthorized       = errors.New("Google Drive not authorized")
	ErrAuthorizationFailed = errors.New("Google Drive authorization failed")
)

type Kind int

const (
	// KindAuth covers unreadable credentials or token files
	KindAuth Kind = iota
	// KindRefresh covers a failed refresh or a failed write of the refreshed token
	KindRefresh
)

func (k Kind) String() string {
	switch k {
	case KindRefresh:
		return "Google Drive refresh token failed"
	default:
		return "Google Auth failed"
	}
}

// Error is a session setup failure. Its text is the kind prefix followed by the cause.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
