package entity

import (
	"fmt"
	"regexp"
	"sort"
)

// columnIDPattern matches spreadsheet column identifiers ("A" .. "ZZZ").
var columnIDPattern = regexp.MustCompile(`^[A-Za-z]{1,3}$`)

// ColumnPlan maps a logical extraction field name to the destination column
// identifier in the store. It is supplied by the caller, never hard-coded.
type ColumnPlan map[string]string

// Fields returns the planned field names in sorted order so that write
// order is deterministic across runs.
func (p ColumnPlan) Fields() []string {
	fields := make([]string, 0, len(p))
	for f := range p {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Validate checks that the plan is non-empty and every column identifier is
// a plausible spreadsheet column.
func (p ColumnPlan) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("column plan is empty")
	}
	for field, col := range p {
		if field == "" {
			return fmt.Errorf("column plan has an empty field name")
		}
		if !columnIDPattern.MatchString(col) {
			return fmt.Errorf("column plan field %q: invalid column id %q", field, col)
		}
	}
	return nil
}
