package provider

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/triage-ai/palisade/services/tool_audit/internal/contract"
)

// ToolStore abstracts DB queries for testability.
type ToolStore interface {
	ListProjectTools(ctx context.Context, projectID string) ([]toolRow, error)
}

type toolRow struct {
	ToolName     string
	Description  sql.NullString
	InputSchema  sql.NullString // JSONB as string
	OutputSchema sql.NullString // JSONB as string
}

// sqlToolStore is the real implementation using *sql.DB.
type sqlToolStore struct {
	db *sql.DB
}

func (s *sqlToolStore) ListProjectTools(ctx context.Context, projectID string) ([]toolRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tool_name, description, input_schema, output_schema
		FROM tool_definitions
		WHERE project_id = $1
		ORDER BY tool_name
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []toolRow
	for rows.Next() {
		var r toolRow
		if err := rows.Scan(&r.ToolName, &r.Description, &r.InputSchema, &r.OutputSchema); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PostgresRegistry lists a project's registered tools from the tool_definitions table.
type PostgresRegistry struct {
	store  ToolStore
	cache  *ToolListCache
	logger *zap.Logger
}

// PostgresRegistryConfig configures the PostgresRegistry.
type PostgresRegistryConfig struct {
	DB       *sql.DB
	CacheTTL time.Duration
	Logger   *zap.Logger
}

// NewPostgresRegistry creates a new PostgresRegistry.
func NewPostgresRegistry(cfg PostgresRegistryConfig) *PostgresRegistry {
	return newPostgresRegistryWithStore(&sqlToolStore{db: cfg.DB}, cfg.CacheTTL, cfg.Logger)
}

// newPostgresRegistryWithStore creates a registry with a custom store (for testing).
func newPostgresRegistryWithStore(store ToolStore, cacheTTL time.Duration, logger *zap.Logger) *PostgresRegistry {
	if cacheTTL == 0 {
		cacheTTL = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresRegistry{
		store:  store,
		cache:  NewToolListCache(cacheTTL),
		logger: logger,
	}
}

// ListTools returns the registered tools of a project. Unknown projects yield an empty list.
func (r *PostgresRegistry) ListTools(ctx context.Context, projectID string) ([]contract.RawTool, error) {
	cached := r.cache.Get(projectID)
	if cached.Hit {
		if cached.NeedsRefresh {
			go r.refreshInBackground(projectID)
		}
		return cloneTools(cached.Value), nil
	}

	tools, err := r.fetchFromDB(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("ListTools: %w", err)
	}
	r.cache.Set(projectID, tools)
	return cloneTools(tools), nil
}

// ForProject binds the registry to one project as a ToolProvider.
func (r *PostgresRegistry) ForProject(projectID string) ToolProvider {
	return &PostgresProvider{registry: r, projectID: projectID}
}

func (r *PostgresRegistry) fetchFromDB(ctx context.Context, projectID string) ([]contract.RawTool, error) {
	rows, err := r.store.ListProjectTools(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tools := make([]contract.RawTool, 0, len(rows))
	for _, row := range rows {
		tools = append(tools, parseToolRow(row))
	}
	return tools, nil
}

func (r *PostgresRegistry) refreshInBackground(projectID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tools, err := r.fetchFromDB(ctx, projectID)
	if err != nil {
		r.logger.Warn("background tool list refresh failed",
			zap.String("project_id", projectID),
			zap.Error(err),
		)
		r.cache.Release(projectID)
		return
	}
	r.cache.Set(projectID, tools)
}

// parseToolRow leaves schema text undecoded; the normalizer reports bad JSON per tool.
func parseToolRow(row toolRow) contract.RawTool {
	tool := contract.RawTool{Name: row.ToolName}
	if row.Description.Valid {
		tool.Description = row.Description.String
	}
	if row.InputSchema.Valid && row.InputSchema.String != "" {
		tool.InputSchema = json.RawMessage(row.InputSchema.String)
	}
	if row.OutputSchema.Valid && row.OutputSchema.String != "" {
		tool.OutputSchema = json.RawMessage(row.OutputSchema.String)
	}
	return tool
}

func cloneTools(tools []contract.RawTool) []contract.RawTool {
	out := make([]contract.RawTool, len(tools))
	copy(out, tools)
	return out
}

// PostgresProvider is a ToolProvider over one project's registered tools.
type PostgresProvider struct {
	registry  *PostgresRegistry
	projectID string
}

func (p *PostgresProvider) Name() string { return "postgres:" + p.projectID }

func (p *PostgresProvider) ListTools(ctx context.Context) ([]contract.RawTool, error) {
	tools, err := p.registry.ListTools(ctx, p.projectID)
	if err != nil {
		return nil, wrap(p.Name(), err)
	}
	return tools, nil
}
