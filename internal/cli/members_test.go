package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type membersResponse struct {
	Status string        `json:"status"`
	Data   MembersResult `json:"data"`
}

func kinds(r MembersResult) map[string]string {
	out := make(map[string]string, len(r.Members))
	for _, m := range r.Members {
		out[m.Name] = m.Kind
	}
	return out
}

func TestMembersBase(t *testing.T) {
	out, err := execute(t, "json", NewMembersCommand)
	require.NoError(t, err)

	var resp membersResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Data.TypeID)
	assert.Equal(t, []string{"ARRAY", "CLASS", "CLASS_ES5", "DECIMAL"}, resp.Data.Matchers)

	k := kinds(resp.Data)
	assert.Equal(t, "method", k["eq"])
	assert.Equal(t, "method", k["set"])
	assert.Equal(t, "computed(cached)", k["Type"])
	assert.NotContains(t, k, "upper")

	names := make([]string, len(resp.Data.Members))
	for i, m := range resp.Data.Members {
		names[i] = m.Name
	}
	assert.IsNonDecreasing(t, names)
}

func TestMembersWithManifest(t *testing.T) {
	out, err := execute(t, "json", NewMembersCommand, "--manifest", textManifest)
	require.NoError(t, err)

	var resp membersResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, textManifest, resp.Data.Manifest)

	k := kinds(resp.Data)
	assert.Equal(t, "method", k["upper"])
	assert.Equal(t, "computed(cached)", k["Bool"])
	assert.NotContains(t, k, "isBoolean")
}

func TestMembersText(t *testing.T) {
	out, err := execute(t, "text", NewMembersCommand)
	require.NoError(t, err)
	assert.Regexp(t, `(?m)^eq\s+method$`, out)
	assert.Regexp(t, `(?m)^Type\s+computed\(cached\)$`, out)
	assert.Regexp(t, `(?m)^ARRAY\s+matcher$`, out)
}

func TestMembersBadManifest(t *testing.T) {
	out, err := execute(t, "text", NewMembersCommand, "--manifest", "missing.cue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E003]")
}
