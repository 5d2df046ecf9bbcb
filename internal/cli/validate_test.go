package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validateResponse struct {
	Status string           `json:"status"`
	Data   ValidationResult `json:"data"`
	Error  *CLIError        `json:"error"`
}

func writeManifest(t *testing.T, name, src string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(file, []byte(src), 0o644))
	return file
}

func TestValidateValidManifest(t *testing.T) {
	out, err := execute(t, "text", NewValidateCommand, textManifest)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ manifest text valid")
}

func TestValidateValidCUEManifest(t *testing.T) {
	file := writeManifest(t, "text.cue", `
name: "text"
addons: [{extension: "strings", keys: ["upper"]}]
`)
	out, err := execute(t, "json", NewValidateCommand, file)
	require.NoError(t, err)

	var resp validateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Empty(t, resp.Data.Issues)
}

func TestValidateWarningsOnly(t *testing.T) {
	file := writeManifest(t, "warn.yaml", `
name: warn
addons:
  - extension: strings
    keys: [upper, shout]
`)
	out, err := execute(t, "text", NewValidateCommand, file)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ manifest warn valid")
	assert.Contains(t, out, "warning: addons[0].keys")
}

func TestValidateErrors(t *testing.T) {
	file := writeManifest(t, "bad.yaml", `
name: bad
addons:
  - extension: nope
`)
	out, err := execute(t, "json", NewValidateCommand, file)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp validateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeInvalidManifest, resp.Error.Code)
	assert.False(t, resp.Data.Valid)
	require.NotEmpty(t, resp.Data.Issues)
	assert.Equal(t, "addons[0].extension", resp.Data.Issues[0].Field)
}

func TestValidateUnreadable(t *testing.T) {
	tests := map[string]string{
		"missing":       filepath.Join(t.TempDir(), "missing.yaml"),
		"unknown field": writeManifest(t, "extra.yaml", "name: x\nextra: 1\n"),
		"extension":     writeManifest(t, "text.txt", "name: x\n"),
	}
	for name, file := range tests {
		t.Run(name, func(t *testing.T) {
			out, err := execute(t, "text", NewValidateCommand, file)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, "Error [E003]")
		})
	}
}
