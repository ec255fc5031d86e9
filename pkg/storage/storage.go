// Package storage holds what the cloud-drive resume adapters share:
// sentinel errors and credential plumbing.
package storage

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"

	"golang.org/x/oauth2"
)

var (
	// ErrAuth marks a failure to obtain provider credentials. It is never retried.
	ErrAuth = errors.New("storage: authentication failed")
	// ErrNotFound marks a remote object that does not exist.
	ErrNotFound = errors.New("storage: remote object not found")
)

// AuthTokenSource wraps ts so that every token failure matches ErrAuth.
func AuthTokenSource(ts oauth2.TokenSource) oauth2.TokenSource {
	return authTokenSource{ts: ts}
}

type authTokenSource struct {
	ts oauth2.TokenSource
}

func (a authTokenSource) Token() (*oauth2.Token, error) {
	tok, err := a.ts.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	return tok, nil
}

// ContentType guesses the MIME type of a remote object from its name.
func ContentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/pdf"
}
