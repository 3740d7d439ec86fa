package extract

import "context"

// ExtractRequest carries one document's content to a FieldExtractor
// backend, along with the logical field names the caller wants back.
type ExtractRequest struct {
	DocumentRef  string   // original locator, used as a hint only
	DocumentText string   // fetched plain text
	Fields       []string // exact field names to extract
}

// FieldExtractor is the backend interface the gateway depends on. The
// returned map holds string values keyed by field name; absent keys mean
// "not found". The raw model JSON is returned for audit logging.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, req ExtractRequest) (map[string]string, []byte /*rawJSON*/, error)
}
