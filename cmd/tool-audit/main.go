package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/triage-ai/palisade/services/tool_audit/internal/clierr"
	"github.com/triage-ai/palisade/services/tool_audit/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "tool-audit",
	Short:         "tool-audit - static analysis for tool contracts",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the tool-audit version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tool-audit %s\n", version)
	},
}

var (
	configPath string
	logLevel   string
	noColor    bool

	// exitCode is the status of a run that completed without a CLI error.
	exitCode = clierr.ExitSuccess
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured output")
	rootCmd.AddCommand(analyseCmd, serveCmd, rulesCmd, versionCmd)
	rootCmd.SetFlagErrorFunc(flagError)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(reportError(os.Stderr, err))
	}
	os.Exit(exitCode)
}

// flagError turns cobra/pflag parse failures into input errors.
func flagError(cmd *cobra.Command, err error) error {
	return clierr.NewInputError(
		"Invalid command-line arguments",
		err.Error(),
		fmt.Sprintf("Run '%s --help' for usage", cmd.CommandPath()),
	)
}

// reportError prints a failed run's error, as JSON when analyse was asked for
// JSON output, and returns the process exit code.
func reportError(w io.Writer, err error) int {
	var ue *clierr.UserError
	if !errors.As(err, &ue) && strings.HasPrefix(err.Error(), "unknown command") {
		err = clierr.NewInputError("Unknown command", err.Error(), "Run 'tool-audit --help' for the command list")
	}
	return clierr.Report(w, err, analyseFlags.format == "json", noColor)
}

// loadConfig reads the config file and environment, then applies --log-level.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, clierr.NewConfigError(
			"Cannot load tool-audit configuration",
			err.Error(),
			"Fix the config file or TOOL_AUDIT_* environment variables",
			err,
		)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
		if err := cfg.Validate(); err != nil {
			return config.Config{}, clierr.NewInputError("Invalid --log-level", err.Error(), "Use debug, info, warn or error")
		}
	}
	return cfg, nil
}

func mustBuildLogger(level string, output string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build logger: %v", err))
	}
	return logger
}

// openPostgres opens a pooled connection through the pgx stdlib driver and pings it.
func openPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}
