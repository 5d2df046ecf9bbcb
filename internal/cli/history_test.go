package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type historyListResponse struct {
	Status string  `json:"status"`
	Data   RunList `json:"data"`
}

type historyDetailResponse struct {
	Status string    `json:"status"`
	Data   RunDetail `json:"data"`
}

// recordRuns checks the given scenarios directory into a fresh database
// and returns its path.
func recordRuns(t *testing.T, dir string) string {
	t.Helper()
	db := filepath.Join(t.TempDir(), "runs.db")
	_, _ = execute(t, "text", NewCheckCommand, dir, "--db", db)
	return db
}

func TestHistoryListsRuns(t *testing.T) {
	db := recordRuns(t, scenariosDir)

	out, err := execute(t, "json", NewHistoryCommand, "--db", db)
	require.NoError(t, err)

	var resp historyListResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Runs, 2)

	// strings ran second, so its UUIDv7 sorts first.
	assert.Equal(t, "strings", resp.Data.Runs[0].Scenario)
	assert.Equal(t, "numbers", resp.Data.Runs[1].Scenario)
	for _, run := range resp.Data.Runs {
		assert.True(t, run.Finished)
		assert.True(t, run.Pass)
		assert.Zero(t, run.Failures)
	}
	assert.Equal(t, 12, resp.Data.Runs[0].Cases)
	assert.Contains(t, resp.Data.Runs[0].Manifest, "text.yaml")

	out, err = execute(t, "json", NewHistoryCommand, "--db", db, "--limit", "1")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Len(t, resp.Data.Runs, 1)
}

func TestHistoryText(t *testing.T) {
	db := filepath.Join(t.TempDir(), "empty.db")
	out, err := execute(t, "text", NewHistoryCommand, "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "no runs\n", out)

	db = recordRuns(t, scenariosDir)
	out, err = execute(t, "text", NewHistoryCommand, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "SCENARIO")
	assert.Regexp(t, `strings\s+12\s+0\s+pass`, out)
}

func TestHistoryRunDetail(t *testing.T) {
	db := recordRuns(t, scenariosDir)

	out, err := execute(t, "json", NewHistoryCommand, "--db", db, "--limit", "1")
	require.NoError(t, err)
	var list historyListResponse
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	runID := list.Data.Runs[0].ID

	out, err = execute(t, "json", NewHistoryCommand, "--db", db, runID)
	require.NoError(t, err)

	var resp historyDetailResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, runID, resp.Data.Run.ID)
	require.Len(t, resp.Data.Evaluations, 12)
	for i, ev := range resp.Data.Evaluations {
		assert.Equal(t, int64(i+1), ev.Seq)
		assert.Equal(t, runID, ev.RunID)
	}
	assert.Equal(t, "upper", resp.Data.Evaluations[0].Case)
	assert.JSONEq(t, `" HI "`, string(resp.Data.Evaluations[0].Output))

	out, err = execute(t, "text", NewHistoryCommand, "--db", db, runID)
	require.NoError(t, err)
	assert.Contains(t, out, "run "+runID+" (strings) pass")
	assert.Contains(t, out, "error UNKNOWN_MEMBER")
}

func TestHistoryFailures(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "failing.yaml", failingScenario)
	db := recordRuns(t, dir)

	out, err := execute(t, "json", NewHistoryCommand, "--db", db)
	require.NoError(t, err)
	var list historyListResponse
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list.Data.Runs, 1)
	run := list.Data.Runs[0]
	assert.False(t, run.Pass)
	assert.Equal(t, 1, run.Failures)

	out, err = execute(t, "json", NewHistoryCommand, "--db", db, run.ID, "--failures")
	require.NoError(t, err)
	var resp historyDetailResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Evaluations, 1)
	assert.Equal(t, "wrong", resp.Data.Evaluations[0].Case)
	assert.False(t, resp.Data.Evaluations[0].Pass)
}

func TestHistoryErrors(t *testing.T) {
	db := recordRuns(t, scenariosDir)

	out, err := execute(t, "text", NewHistoryCommand, "--db", db, "no-such-run")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E002]")

	_, err = execute(t, "text", NewHistoryCommand)
	require.Error(t, err, "--db is required")

	out, err = execute(t, "text", NewHistoryCommand, "--db", filepath.Join(t.TempDir(), "nope", "runs.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestHistoryRecordsGoldenFailures(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	golden := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(golden, "numbers.golden"), []byte("{}"), 0o644))

	_, err := execute(t, "text", NewCheckCommand, scenariosDir, "--db", db, "--golden", golden, "--filter", "num*")
	require.Error(t, err)

	out, err := execute(t, "json", NewHistoryCommand, "--db", db)
	require.NoError(t, err)
	var resp historyListResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Runs, 1)

	run := resp.Data.Runs[0]
	assert.Equal(t, "numbers", run.Scenario)
	assert.True(t, run.Finished)
	assert.False(t, run.Pass, "a golden mismatch fails the recorded run")
	assert.Equal(t, 1, run.Failures)
}
