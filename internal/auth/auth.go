package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// KeyPrefix starts every tool-audit API key.
const KeyPrefix = "tak_"

// Authenticator validates an API key and returns the project it belongs to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*ProjectContext, error)
}

// ProjectContext holds the authenticated project's identity.
type ProjectContext struct {
	ProjectID string
	// Degraded is set when the key could not be verified and the
	// authenticator failed open.
	Degraded bool
}

var (
	// ErrUnauthenticated is returned when no usable credentials are presented.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidAPIKey is returned when a key is well-formed but unknown or wrong.
	ErrInvalidAPIKey = errors.New("invalid api key")
	// ErrAuthUnavailable is returned when the key store cannot be reached.
	ErrAuthUnavailable = errors.New("auth backend unavailable")
)

// ExtractBearerToken extracts a tak_ API key from the Authorization header.
func ExtractBearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", ErrUnauthenticated
	}
	token := strings.TrimPrefix(header, "Bearer ")
	token = strings.TrimPrefix(token, "bearer ")
	token = strings.TrimSpace(token)
	if !strings.HasPrefix(token, KeyPrefix) || len(token) <= len(KeyPrefix) {
		return "", ErrUnauthenticated
	}
	return token, nil
}

type projectKey struct{}

// WithProject stores the authenticated project on ctx.
func WithProject(ctx context.Context, p *ProjectContext) context.Context {
	return context.WithValue(ctx, projectKey{}, p)
}

// ProjectFrom returns the project stored by WithProject.
func ProjectFrom(ctx context.Context) (*ProjectContext, bool) {
	p, ok := ctx.Value(projectKey{}).(*ProjectContext)
	return p, ok && p != nil
}
