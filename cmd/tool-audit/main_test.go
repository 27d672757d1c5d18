package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triage-ai/palisade/services/tool_audit/internal/clierr"
)

// execute runs the root command with fresh flag state and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"TOOL_AUDIT_PROVIDER", "TOOL_AUDIT_PATH", "TOOL_AUDIT_ENDPOINT", "TOOL_AUDIT_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	t.Setenv("TOOL_AUDIT_LOG_LEVEL", "error")

	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	for _, c := range rootCmd.Commands() {
		reset(c.Flags())
	}
	reset(rootCmd.PersistentFlags())
	exitCode = clierr.ExitSuccess

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeTools(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tools.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestAnalyse_FailingToolListSetsExitCode(t *testing.T) {
	path := writeTools(t, `[{"name":"get_user","description":"Get a user","inputSchema":{"type":"object","required":["id"],"properties":{"id":{"type":"string"}}}}]`)

	out, err := execute(t, "analyse", "--path", path, "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, clierr.ExitFindings, exitCode)

	var res struct {
		Verdict   string `json:"verdict"`
		ToolCount int    `json:"tool_count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "fail", res.Verdict)
	assert.Equal(t, 1, res.ToolCount)
}

func TestAnalyse_TextOutput(t *testing.T) {
	path := writeTools(t, `{"tools":[]}`)

	out, err := execute(t, "analyse", "--path", path, "--no-color")
	require.NoError(t, err)
	assert.Equal(t, clierr.ExitSuccess, exitCode)
	assert.Contains(t, out, "Verdict: PASS")
}

func TestAnalyse_NoProvider(t *testing.T) {
	_, err := execute(t, "analyse")
	var ue *clierr.UserError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, clierr.ExitInput, ue.ExitCode)
}

func TestAnalyse_BadFormat(t *testing.T) {
	_, err := execute(t, "analyse", "--path", writeTools(t, `[]`), "--format", "xml")
	var ue *clierr.UserError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, clierr.ExitInput, ue.ExitCode)
}

func TestAnalyse_ProviderFailure(t *testing.T) {
	_, err := execute(t, "analyse", "--path", writeTools(t, `{"items":[]}`))
	var ue *clierr.UserError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, clierr.ExitProvider, ue.ExitCode)
	assert.Contains(t, ue.Fix, `"tools"`)
}

func TestAnalyse_PostgresNeedsProject(t *testing.T) {
	_, err := execute(t, "analyse", "--provider", "postgres")
	var ue *clierr.UserError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, clierr.ExitInput, ue.ExitCode)
	assert.Contains(t, ue.Cause, "provider.project_id")
}

func TestRulesCommand(t *testing.T) {
	out, err := execute(t, "rules")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 18)
	assert.True(t, strings.HasPrefix(lines[0], "CODE"))
	assert.True(t, strings.HasPrefix(lines[1], "E008"))
	assert.True(t, strings.HasPrefix(lines[17], "W117"))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "tool-audit dev\n", out)
}

func TestUnknownFlagIsInputError(t *testing.T) {
	_, err := execute(t, "analyse", "--bogus")
	var ue *clierr.UserError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, clierr.ExitInput, ue.ExitCode)
	assert.Contains(t, ue.Fix, "tool-audit analyse --help")

	var buf bytes.Buffer
	assert.Equal(t, clierr.ExitInput, reportError(&buf, err))
}

func TestUnknownCommandIsInputError(t *testing.T) {
	_, err := execute(t, "analyze-all")
	require.Error(t, err)

	var buf bytes.Buffer
	assert.Equal(t, clierr.ExitInput, reportError(&buf, err))
	assert.Contains(t, buf.String(), "Unknown command")
}

func TestReportError_JSONFormat(t *testing.T) {
	_, err := execute(t, "analyse", "--format", "json")
	require.Error(t, err)

	var buf bytes.Buffer
	code := reportError(&buf, err)
	assert.Equal(t, clierr.ExitInput, code)

	var body clierr.ErrorJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &body))
	assert.Equal(t, clierr.ExitInput, body.ExitCode)
	assert.NotEmpty(t, body.Error)
}

func TestReportError_TextFormat(t *testing.T) {
	_, err := execute(t, "analyse", "--no-color")
	require.Error(t, err)

	var buf bytes.Buffer
	assert.Equal(t, clierr.ExitInput, reportError(&buf, err))
	assert.True(t, strings.HasPrefix(buf.String(), "Error: "))
}
