package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/socs4ai/standards-tracker/internal/entity"
)

// Store persists batch results. Append is called after every completed item
// so a cancelled or crashed run still leaves a resumable manifest; Flush is
// called once at batch completion.
type Store interface {
	Append(ctx context.Context, result *entity.BatchResult, item entity.ItemResult) error
	Flush(ctx context.Context, result *entity.BatchResult) error
}

// JSONFileStore writes the whole BatchResult to a JSON file. The file is
// rewritten on every append via a temp-file rename, so readers never see a
// torn manifest.
type JSONFileStore struct {
	Path string
}

func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{Path: path}
}

func (s *JSONFileStore) Append(ctx context.Context, result *entity.BatchResult, _ entity.ItemResult) error {
	return s.Flush(ctx, result)
}

func (s *JSONFileStore) Flush(_ context.Context, result *entity.BatchResult) error {
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal batch result: %w", err)
	}

	tmp := s.Path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("create manifest dir: %w", err)
	}
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("replace manifest: %w", err)
	}
	return nil
}

// LoadResult reads a previously persisted BatchResult, used for resumption.
func LoadResult(path string) (*entity.BatchResult, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open result manifest: %w", err)
	}
	var result entity.BatchResult
	if err := json.Unmarshal(b, &result); err != nil {
		return nil, fmt.Errorf("parse result manifest %s: %w", path, err)
	}
	return &result, nil
}

// FilterResumable drops input items whose previous outcome already fully
// succeeded; idempotent overwrites make re-processing the rest safe.
func FilterResumable(items []entity.InputItem, previous *entity.BatchResult) []entity.InputItem {
	if previous == nil {
		return items
	}
	done := previous.SucceededKeys()
	remaining := make([]entity.InputItem, 0, len(items))
	for _, it := range items {
		if !done[it.Key] {
			remaining = append(remaining, it)
		}
	}
	return remaining
}

// MultiStore fans Append/Flush out to several stores (e.g. JSON file plus
// SQL audit table).
type MultiStore []Store

func (m MultiStore) Append(ctx context.Context, result *entity.BatchResult, item entity.ItemResult) error {
	for _, s := range m {
		if err := s.Append(ctx, result, item); err != nil {
			return err
		}
	}
	return nil
}

func (m MultiStore) Flush(ctx context.Context, result *entity.BatchResult) error {
	for _, s := range m {
		if err := s.Flush(ctx, result); err != nil {
			return err
		}
	}
	return nil
}
