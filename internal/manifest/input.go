// Package manifest handles the batch's file surfaces: the input item list,
// the caller-supplied column plan, and the persisted results manifest.
package manifest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/socs4ai/standards-tracker/internal/entity"
)

// Header names recognized in CSV input manifests, matched case-insensitively.
var (
	keyHeaders   = []string{"key", "id", "lesson_id", "lesson id"}
	docHeaders   = []string{"doc", "docurl", "doc_url", "doc url", "document", "url", "link"}
	readyHeaders = []string{"ready", "finalized"}
)

// LoadCSV reads an input manifest from a CSV file with a header row. Rows
// whose ready column is FALSE are skipped (the tracker marks unfinished
// rows that way), as are rows missing a key or a document reference.
// Remaining columns pass through into InputItem.Extra.
func LoadCSV(path string, logger *slog.Logger) ([]entity.InputItem, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input manifest: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", path, err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("input manifest %s is empty", path)
	}

	header := records[0]
	keyIdx := findHeader(header, keyHeaders)
	docIdx := findHeader(header, docHeaders)
	readyIdx := findHeader(header, readyHeaders)
	if keyIdx < 0 || docIdx < 0 {
		return nil, fmt.Errorf("input manifest %s: could not locate key and document columns in header %v", path, header)
	}

	var items []entity.InputItem
	skipped := 0
	for rowNum, row := range records[1:] {
		if keyIdx >= len(row) || docIdx >= len(row) {
			skipped++
			continue
		}
		key := strings.TrimSpace(row[keyIdx])
		ref := strings.TrimSpace(row[docIdx])

		if readyIdx >= 0 && readyIdx < len(row) &&
			strings.EqualFold(strings.TrimSpace(row[readyIdx]), "FALSE") {
			logger.Info("manifest.input.skip_not_ready", "row", rowNum+2, "key", key)
			skipped++
			continue
		}
		if key == "" || ref == "" {
			logger.Warn("manifest.input.skip_incomplete", "row", rowNum+2, "key", key)
			skipped++
			continue
		}

		extra := make(map[string]string)
		for i, cell := range row {
			if i == keyIdx || i == docIdx || i == readyIdx || i >= len(header) {
				continue
			}
			if v := strings.TrimSpace(cell); v != "" {
				extra[header[i]] = v
			}
		}
		if len(extra) == 0 {
			extra = nil
		}
		items = append(items, entity.InputItem{Key: key, DocumentRef: ref, Extra: extra})
	}

	logger.Info("manifest.input.loaded", "path", path, "items", len(items), "skipped", skipped)
	return items, nil
}

// LoadJSON reads an input manifest from a JSON array of objects with "key"
// and "document_ref" fields.
func LoadJSON(path string) ([]entity.InputItem, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open input manifest: %w", err)
	}
	var items []entity.InputItem
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("parse json %s: %w", path, err)
	}
	out := items[:0]
	for _, it := range items {
		it.Key = strings.TrimSpace(it.Key)
		it.DocumentRef = strings.TrimSpace(it.DocumentRef)
		if it.Key == "" || it.DocumentRef == "" {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// LoadInput dispatches on the file extension: .json or .csv.
func LoadInput(path string, logger *slog.Logger) ([]entity.InputItem, error) {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return LoadJSON(path)
	}
	return LoadCSV(path, logger)
}

func findHeader(header []string, candidates []string) int {
	for i, h := range header {
		h = strings.TrimSpace(strings.ToLower(h))
		for _, c := range candidates {
			if h == c {
				return i
			}
		}
	}
	return -1
}
