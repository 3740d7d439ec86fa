package extract

// BuildFieldsJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map constraining the model output to exactly the planned fields.
// Every property is a string; nothing is required, since an absent field
// means "not found in the document".
func BuildFieldsJSONSchema(fields []string) map[string]any {
	props := make(map[string]any, len(fields))
	for _, f := range fields {
		props[f] = map[string]any{"type": "string"}
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
}
