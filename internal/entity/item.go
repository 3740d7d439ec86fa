package entity

// InputItem is one record from the input manifest: a key expected to appear
// in the store's key column, and an opaque document reference (usually a
// URL). Extra carries pass-through columns from the source manifest.
type InputItem struct {
	Key         string            `json:"key"`
	DocumentRef string            `json:"document_ref"`
	Extra       map[string]string `json:"extra,omitempty"`
}
