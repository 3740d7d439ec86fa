package manifest

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/socs4ai/standards-tracker/internal/entity"
)

// LoadPlan reads a column plan from a YAML (or JSON, which YAML subsumes)
// file mapping field names to column identifiers, e.g.
//
//	standards: P
//	grade_level: Q
func LoadPlan(path string) (entity.ColumnPlan, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open column plan: %w", err)
	}

	var plan entity.ColumnPlan
	if err := yaml.Unmarshal(b, &plan); err != nil {
		return nil, fmt.Errorf("parse column plan %s: %w", path, err)
	}

	normalized := make(entity.ColumnPlan, len(plan))
	for field, col := range plan {
		normalized[strings.TrimSpace(field)] = strings.ToUpper(strings.TrimSpace(col))
	}
	if err := normalized.Validate(); err != nil {
		return nil, fmt.Errorf("column plan %s: %w", path, err)
	}
	return normalized, nil
}
