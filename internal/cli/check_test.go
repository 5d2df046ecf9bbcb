package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkResponse struct {
	Status string      `json:"status"`
	Data   CheckResult `json:"data"`
	Error  *CLIError   `json:"error"`
}

const failingScenario = `
name: failing
cases:
  - name: wrong
    value: 1
    member: Type
    expect: string
  - name: right
    value: 1
    member: Type
    expect: number
`

func writeScenario(t *testing.T, dir, name, src string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
}

func TestCheckPassing(t *testing.T) {
	out, err := execute(t, "json", NewCheckCommand, scenariosDir)
	require.NoError(t, err)

	var resp checkResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 2, resp.Data.Passed)
	assert.Zero(t, resp.Data.Failed)

	require.Len(t, resp.Data.Scenarios, 2)
	assert.Equal(t, "numbers", resp.Data.Scenarios[0].Name)
	assert.Equal(t, "strings", resp.Data.Scenarios[1].Name)
	assert.Equal(t, 12, resp.Data.Scenarios[1].Cases)
	assert.NotEqual(t, resp.Data.Scenarios[0].RunID, resp.Data.Scenarios[1].RunID)
}

func TestCheckGoldenMatches(t *testing.T) {
	out, err := execute(t, "text", NewCheckCommand, scenariosDir, "--golden", goldenDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ numbers")
	assert.Contains(t, out, "✓ strings (12 cases)")
	assert.Contains(t, out, "2 passed, 0 failed, 2 total")
}

func TestCheckGoldenUpdateThenCompare(t *testing.T) {
	golden := filepath.Join(t.TempDir(), "golden")

	out, err := execute(t, "text", NewCheckCommand, scenariosDir, "--golden", golden)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "missing (run with --update)")

	_, err = execute(t, "text", NewCheckCommand, scenariosDir, "--golden", golden, "--update")
	require.NoError(t, err)

	want, err := os.ReadFile(filepath.Join(goldenDir, "strings.golden"))
	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(golden, "strings.golden"))
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))

	_, err = execute(t, "text", NewCheckCommand, scenariosDir, "--golden", golden)
	require.NoError(t, err)
}

func TestCheckGoldenMismatch(t *testing.T) {
	golden := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(golden, "numbers.golden"), []byte("{}"), 0o644))

	out, err := execute(t, "text", NewCheckCommand, scenariosDir, "--golden", golden, "--filter", "num*")
	require.Error(t, err)
	assert.Contains(t, out, "golden: trace differs")
	assert.Contains(t, out, "0 passed, 1 failed, 1 total")
}

func TestCheckFilter(t *testing.T) {
	out, err := execute(t, "json", NewCheckCommand, scenariosDir, "--filter", "str*")
	require.NoError(t, err)

	var resp checkResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Equal(t, "strings", resp.Data.Scenarios[0].Name)
}

func TestCheckFailingScenario(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "failing.yaml", failingScenario)

	out, err := execute(t, "json", NewCheckCommand, dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeCheckFailed)

	var resp checkResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeCheckFailed, resp.Error.Code)
	assert.Equal(t, 1, resp.Data.Failed)

	s := resp.Data.Scenarios[0]
	assert.False(t, s.Pass)
	assert.Equal(t, 2, s.Cases)
	assert.Equal(t, 1, s.Failures)
	require.Len(t, s.Errors, 1)
	assert.Contains(t, s.Errors[0], `case "wrong"`)
}

func TestCheckEmptyDirectory(t *testing.T) {
	out, err := execute(t, "json", NewCheckCommand, t.TempDir())
	require.NoError(t, err)

	var resp checkResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Zero(t, resp.Data.Total)
	assert.NotNil(t, resp.Data.Scenarios)
}

func TestCheckCommandErrors(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "broken.yaml", "name: broken\ncases: []\n")
	file := filepath.Join(dir, "broken.yaml")

	tests := map[string]struct {
		args []string
		code string
	}{
		"missing dir":    {[]string{filepath.Join(dir, "nope")}, ErrCodeNotFound},
		"not a dir":      {[]string{file}, ErrCodeNotFound},
		"bad filter":     {[]string{scenariosDir, "--filter", "["}, ErrCodeGeneric},
		"invalid file":   {[]string{dir}, ErrCodeGeneric},
		"bad store path": {[]string{scenariosDir, "--db", filepath.Join(dir, "nope", "runs.db")}, ErrCodeStore},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			out, err := execute(t, "text", NewCheckCommand, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, "Error ["+tt.code+"]")
		})
	}
}
