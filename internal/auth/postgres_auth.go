package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// prefixLen is how much of a key is stored in clear for lookup.
const prefixLen = 8

// ProjectStore abstracts DB queries for testability.
type ProjectStore interface {
	LookupByPrefix(ctx context.Context, prefix string) (*projectRow, error)
}

type projectRow struct {
	ProjectID  string
	APIKeyHash string
}

// sqlProjectStore is the real implementation using *sql.DB.
type sqlProjectStore struct {
	db *sql.DB
}

func (s *sqlProjectStore) LookupByPrefix(ctx context.Context, prefix string) (*projectRow, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, api_key_hash
		FROM projects
		WHERE api_key_prefix = $1
	`, prefix)

	var r projectRow
	if err := row.Scan(&r.ProjectID, &r.APIKeyHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidAPIKey
		}
		return nil, err
	}
	return &r, nil
}

// PostgresAuthenticator validates API keys against the projects table.
type PostgresAuthenticator struct {
	store    ProjectStore
	cache    *AuthCache
	logger   *zap.Logger
	failOpen bool
}

// PostgresAuthConfig configures the PostgresAuthenticator.
type PostgresAuthConfig struct {
	DB       *sql.DB
	CacheTTL time.Duration
	// FailOpen admits requests as a degraded project while the store is unreachable.
	FailOpen bool
	Logger   *zap.Logger
}

// NewPostgresAuthenticator creates a new PostgresAuthenticator.
func NewPostgresAuthenticator(cfg PostgresAuthConfig) *PostgresAuthenticator {
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = 30 * time.Second
	}
	a := newPostgresAuthenticatorWithStore(&sqlProjectStore{db: cfg.DB}, NewAuthCache(ttl), cfg.Logger)
	a.failOpen = cfg.FailOpen
	return a
}

// newPostgresAuthenticatorWithStore creates an authenticator with a custom store (for testing).
func newPostgresAuthenticatorWithStore(store ProjectStore, cache *AuthCache, logger *zap.Logger) *PostgresAuthenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresAuthenticator{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

func (a *PostgresAuthenticator) Authenticate(ctx context.Context, token string) (*ProjectContext, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	// Check cache
	cacheResult := a.cache.Get(token)
	if cacheResult.Hit {
		if cacheResult.NeedsRefresh {
			go a.refreshInBackground(token)
		}
		return cacheResult.Value, nil
	}

	// Cache miss: authenticate synchronously
	project, err := a.authenticateFromDB(ctx, token)
	if err != nil {
		if a.failOpen && errors.Is(err, ErrAuthUnavailable) {
			a.logger.Warn("auth backend unavailable, degrading to fail-open", zap.Error(err))
			return &ProjectContext{ProjectID: "unknown", Degraded: true}, nil
		}
		return nil, fmt.Errorf("Authenticate: %w", err)
	}

	a.cache.Set(token, project)
	return project, nil
}

func (a *PostgresAuthenticator) authenticateFromDB(ctx context.Context, token string) (*ProjectContext, error) {
	if len(token) < prefixLen {
		return nil, ErrInvalidAPIKey
	}

	row, err := a.store.LookupByPrefix(ctx, token[:prefixLen])
	if err != nil {
		if errors.Is(err, ErrInvalidAPIKey) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrAuthUnavailable, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(row.APIKeyHash), []byte(token)); err != nil {
		return nil, ErrInvalidAPIKey
	}
	return &ProjectContext{ProjectID: row.ProjectID}, nil
}

func (a *PostgresAuthenticator) refreshInBackground(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	project, err := a.authenticateFromDB(ctx, token)
	if err != nil {
		if errors.Is(err, ErrInvalidAPIKey) {
			// Key was revoked; stop serving it from cache.
			a.cache.Delete(token)
		} else {
			a.cache.Release(token)
		}
		a.logger.Warn("background auth refresh failed", zap.Error(err))
		return
	}
	a.cache.Set(token, project)
}
