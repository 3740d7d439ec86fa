package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFieldsJSONSchema(t *testing.T) {
	schema := BuildFieldsJSONSchema([]string{"standards", "grade_level"})

	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, false, schema["additionalProperties"])
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, props, 2)
	assert.Equal(t, map[string]any{"type": "string"}, props["standards"])
}

func TestValidateJSONAgainstSchema(t *testing.T) {
	schema := BuildFieldsJSONSchema([]string{"standards", "grade_level"})

	assert.NoError(t, ValidateJSONAgainstSchema(schema, []byte(`{"standards": "CCSS.ELA.1"}`)))
	assert.NoError(t, ValidateJSONAgainstSchema(schema, []byte(`{}`)))

	// Unknown field, wrong type, malformed JSON.
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`{"publisher": "x"}`)))
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`{"standards": 42}`)))
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`{"standards":`)))
}

func TestDecodeFieldMap(t *testing.T) {
	m, err := DecodeFieldMap([]byte(`{"standards": "a", "grade_level": "5"}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"standards": "a", "grade_level": "5"}, m)

	_, err = DecodeFieldMap([]byte(`[1, 2]`))
	assert.Error(t, err)
}

func TestBuildSystemPromptListsFields(t *testing.T) {
	p := BuildSystemPrompt([]string{"standards", "grade_level"})
	assert.Contains(t, p, "standards, grade_level")
	assert.Contains(t, p, "JSON")
}

func TestBuildUserPromptTruncatesLongDocuments(t *testing.T) {
	req := ExtractRequest{
		DocumentRef:  "D1",
		DocumentText: strings.Repeat("x", maxDocChars+500),
	}
	p := BuildUserPrompt(req)
	assert.Contains(t, p, "Document reference: D1")
	assert.Less(t, len(p), maxDocChars+200)
}
