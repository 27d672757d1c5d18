package main

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/triage-ai/palisade/services/tool_audit/internal/analyser"
	"github.com/triage-ai/palisade/services/tool_audit/internal/clierr"
	"github.com/triage-ai/palisade/services/tool_audit/internal/config"
	"github.com/triage-ai/palisade/services/tool_audit/internal/provider"
	"github.com/triage-ai/palisade/services/tool_audit/internal/report"
)

var analyseCmd = &cobra.Command{
	Use:     "analyse",
	Aliases: []string{"analyze"},
	Short:   "Analyse the tool contracts exposed by a provider",
	Long: `Fetches a tool list and reports contract problems.

Exit status is 0 for pass and pass-with-warnings, 1 for fail, and
2 (config), 3 (provider), 4 (input) or 10 (internal) when the run could not complete.`,
	RunE: runAnalyse,
}

var analyseFlags struct {
	provider  string
	path      string
	endpoint  string
	projectID string
	format    string
	timeout   time.Duration
}

func init() {
	f := analyseCmd.Flags()
	f.StringVar(&analyseFlags.provider, "provider", "", "Tool source: file, mcp or postgres")
	f.StringVar(&analyseFlags.path, "path", "", "JSON or YAML tool list (file provider)")
	f.StringVar(&analyseFlags.endpoint, "endpoint", "", "MCP server spec, e.g. stdio://cmd, https://host/mcp, sse://host/sse")
	f.StringVar(&analyseFlags.projectID, "project", "", "Project id (postgres provider)")
	f.StringVarP(&analyseFlags.format, "format", "f", "text", "Output format: text or json")
	f.DurationVar(&analyseFlags.timeout, "timeout", 0, "Provider fetch timeout, e.g. 30s")
}

func runAnalyse(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyAnalyseFlags(cmd, &cfg.Provider); err != nil {
		return err
	}
	if analyseFlags.format != "text" && analyseFlags.format != "json" {
		return clierr.NewInputError("Unknown --format "+analyseFlags.format, "", "Use --format text or --format json")
	}

	logger := mustBuildLogger(cfg.LogLevel, "stderr")
	defer logger.Sync() //nolint:errcheck // best-effort flush

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Provider.Timeout)
	defer cancel()

	p, closeProvider, err := buildProvider(ctx, cfg.Provider, logger)
	if err != nil {
		return err
	}
	defer closeProvider()

	res, err := analyser.New(logger).Analyse(ctx, p)
	if err != nil {
		return providerFailure(p.Name(), err)
	}

	if err := writeResult(cmd.OutOrStdout(), res, analyseFlags.format); err != nil {
		return clierr.NewInternalError("Cannot write report", err.Error(), err)
	}
	exitCode = report.ExitCode(res.Verdict)
	return nil
}

// applyAnalyseFlags layers explicitly set flags over the loaded config and
// infers the provider kind from --path or --endpoint when it is not given.
func applyAnalyseFlags(cmd *cobra.Command, p *config.ProviderConfig) error {
	flags := cmd.Flags()
	if flags.Changed("provider") {
		p.Kind = analyseFlags.provider
	}
	if flags.Changed("path") {
		p.Path = analyseFlags.path
	}
	if flags.Changed("endpoint") {
		p.Endpoint = analyseFlags.endpoint
	}
	if flags.Changed("project") {
		p.ProjectID = analyseFlags.projectID
	}
	if flags.Changed("timeout") {
		p.Timeout = analyseFlags.timeout
	}

	if p.Kind == "" {
		switch {
		case p.Path != "":
			p.Kind = config.ProviderFile
		case p.Endpoint != "":
			p.Kind = config.ProviderMCP
		default:
			return clierr.NewInputError(
				"No tool provider selected",
				"analyse needs a tool list to read",
				"Pass --path tools.json, --endpoint <mcp server> or --provider postgres --project <id>",
			)
		}
	}
	if err := p.Validate(); err != nil {
		return clierr.NewInputError("Invalid provider settings", err.Error(), "Check the analyse flags or the provider section of the config")
	}
	return nil
}

// buildProvider returns the provider and a cleanup for any resources it holds.
func buildProvider(ctx context.Context, cfg config.ProviderConfig, logger *zap.Logger) (provider.ToolProvider, func(), error) {
	noop := func() {}
	switch cfg.Kind {
	case config.ProviderFile:
		return provider.NewFileProvider(cfg.Path), noop, nil
	case config.ProviderMCP:
		return provider.NewMCPProvider(cfg.Endpoint, logger), noop, nil
	case config.ProviderPostgres:
		db, err := openPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, noop, clierr.NewProviderError(
				"Cannot connect to the tool registry",
				err.Error(),
				"Check TOOL_AUDIT_POSTGRES_DSN and that the database is reachable",
				err,
			)
		}
		reg := provider.NewPostgresRegistry(provider.PostgresRegistryConfig{
			DB:       db,
			CacheTTL: cfg.CacheTTL,
			Logger:   logger,
		})
		return reg.ForProject(cfg.ProjectID), func() { _ = db.Close() }, nil
	}
	return nil, noop, clierr.NewInputError("Unknown provider "+cfg.Kind, "", "Use file, mcp or postgres")
}

func providerFailure(name string, err error) error {
	fix := "Check that the provider is reachable and returns a tool list"
	switch {
	case errors.Is(err, provider.ErrMalformedResponse):
		fix = `The tool list must be an array of tools or an object with a "tools" array`
	case errors.Is(err, context.DeadlineExceeded):
		fix = "Increase --timeout or check that the provider responds"
	}
	return clierr.NewProviderError("Cannot fetch tools from "+name, err.Error(), fix, err)
}

func writeResult(w io.Writer, res *analyser.Result, format string) error {
	if format == "json" {
		return report.JSON(w, res)
	}
	return report.Text(w, res, noColor)
}
