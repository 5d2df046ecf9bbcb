package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/thevalue/internal/catalog"
)

func TestValidateClean(t *testing.T) {
	issues := Validate(wantText(), catalog.Default())
	assert.Empty(t, issues)
	assert.False(t, HasErrors(issues))
}

func TestValidateFindings(t *testing.T) {
	m := &Manifest{
		Addons: []AddonSpec{
			{Extension: "nope"},
			{Extension: "strings", Keys: []string{"upper", "shout", "valueOf"}},
			{Extension: "types", Rename: map[string]string{"isMap": "", "isBag": "Bag"}},
			{Extension: "math", Keys: []string{"pow"}, Rename: map[string]string{"abs": "valueOf"}},
		},
	}
	issues := Validate(m, catalog.Default())
	assert.True(t, HasErrors(issues))

	got := make([]string, len(issues))
	for i, is := range issues {
		got[i] = string(is.Severity) + " " + is.Field
	}
	assert.Equal(t, []string{
		"error name",
		"error addons[0].extension",
		"warning addons[1].keys",
		"error addons[1].keys",
		"warning addons[1].keys",
		"warning addons[2].rename.isBag",
		"error addons[2].rename.isMap",
		"error addons[3]",
		"error addons[3].rename.abs",
	}, got)
}

func TestIssueString(t *testing.T) {
	is := Issue{Severity: SeverityWarning, Field: "addons[0].keys", Message: "missing"}
	assert.Equal(t, "warning: addons[0].keys: missing", is.String())
}
