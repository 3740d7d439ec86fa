package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socs4ai/standards-tracker/internal/entity"
)

func TestLoadPlan(t *testing.T) {
	path := writeTemp(t, "plan.yaml",
		"standards: p\n"+
			"grade_level: \" Q \"\n"+
			"subject: AB\n")

	plan, err := LoadPlan(path)
	require.NoError(t, err)
	assert.Equal(t, entity.ColumnPlan{
		"standards":   "P",
		"grade_level": "Q",
		"subject":     "AB",
	}, plan)
	assert.Equal(t, []string{"grade_level", "standards", "subject"}, plan.Fields())
}

func TestLoadPlanRejectsBadColumn(t *testing.T) {
	for _, content := range []string{
		"standards: P1\n",
		"standards: \"\"\n",
		"standards: PPPP\n",
		"\"\": P\n",
	} {
		path := writeTemp(t, "plan.yaml", content)
		_, err := LoadPlan(path)
		require.Error(t, err, "plan %q should be rejected", content)
	}
}

func TestLoadPlanAcceptsJSON(t *testing.T) {
	path := writeTemp(t, "plan.json", `{"standards": "P"}`)
	plan, err := LoadPlan(path)
	require.NoError(t, err)
	assert.Equal(t, "P", plan["standards"])
}
