package extract

import "strings"

// maxDocChars caps how much document text is sent to the model.
const maxDocChars = 12000

// BuildSystemPrompt instructs the model to return only JSON matching the
// planned fields. Field semantics ride on the field names themselves; the
// column plan is the single source of what gets asked for.
func BuildSystemPrompt(fields []string) string {
	parts := []string{
		"You are a document analyst. Read the document and extract the requested fields.",
		"Return ONLY a JSON object that matches the JSON Schema provided.",
		"Requested fields: " + strings.Join(fields, ", ") + ".",
		"Each value is a plain string. When a field lists multiple items, join them with a comma and a space, no extra commentary.",
		"Never output null. If a field is not present in the document, omit it.",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages the document text with its reference as a hint.
func BuildUserPrompt(req ExtractRequest) string {
	var b strings.Builder
	b.WriteString("Document reference: ")
	b.WriteString(req.DocumentRef)
	b.WriteString("\n\nDocument text:\n")
	text := req.DocumentText
	if len(text) > maxDocChars {
		text = text[:maxDocChars]
	}
	b.WriteString(text)
	return b.String()
}
