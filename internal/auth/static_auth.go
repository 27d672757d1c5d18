package auth

import (
	"context"
	"strings"
)

// StaticAuthenticator is a development-only authenticator that accepts any tak_ key.
type StaticAuthenticator struct{}

func NewStaticAuthenticator() *StaticAuthenticator {
	return &StaticAuthenticator{}
}

func (a *StaticAuthenticator) Authenticate(_ context.Context, token string) (*ProjectContext, error) {
	if !strings.HasPrefix(token, KeyPrefix) || len(token) < 8 {
		return nil, ErrUnauthenticated
	}
	// Accept any tak_ prefixed key with a static project ID
	return &ProjectContext{ProjectID: "static-" + token[:8]}, nil
}
