package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/socs4ai/standards-tracker/constants"
)

func TestSummarize(t *testing.T) {
	r := &BatchResult{Items: []ItemResult{
		{Key: "1", Status: constants.ItemAllWritesSucceeded},
		{Key: "2", Status: constants.ItemAllWritesSucceeded},
		{Key: "3", Status: constants.ItemPartialFailure},
		{Key: "4", Status: constants.ItemExtractionFailed},
		{Key: "5", Status: constants.ItemRowNotFound},
		{Key: "6", Status: constants.ItemAllWritesFailed},
	}}

	s := r.Summarize()
	assert.Equal(t, Summary{
		Total:            6,
		Succeeded:        2,
		Partial:          1,
		ExtractionFailed: 1,
		RowNotFound:      1,
		WritesFailed:     1,
	}, s)
}

func TestSucceededKeys(t *testing.T) {
	r := &BatchResult{Items: []ItemResult{
		{Key: "200", Status: constants.ItemAllWritesSucceeded},
		{Key: "201", Status: constants.ItemPartialFailure},
		{Key: "202", Status: constants.ItemExtractionFailed},
	}}
	keys := r.SucceededKeys()
	assert.True(t, keys["200"])
	assert.False(t, keys["201"])
	assert.False(t, keys["202"])
}

func TestColumnPlanValidate(t *testing.T) {
	assert.NoError(t, ColumnPlan{"standards": "P", "grade": "AA"}.Validate())
	assert.Error(t, ColumnPlan{}.Validate())
	assert.Error(t, ColumnPlan{"standards": "P1"}.Validate())
	assert.Error(t, ColumnPlan{"standards": ""}.Validate())
	assert.Error(t, ColumnPlan{"": "P"}.Validate())
}

func TestColumnPlanFieldsSorted(t *testing.T) {
	p := ColumnPlan{"z_field": "A", "a_field": "B", "m_field": "C"}
	assert.Equal(t, []string{"a_field", "m_field", "z_field"}, p.Fields())
}
