package xlsx

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/socs4ai/standards-tracker/internal/sheet"
)

// Store is a sheet.TabularStore over a local XLSX workbook. Useful for dry
// runs and tests against a copy of the tracker. Writes are saved to disk
// immediately so a crash between items loses at most the in-flight cell.
type Store struct {
	mu     sync.Mutex
	path   string
	sheet  string
	file   *excelize.File
	logger *slog.Logger
}

// Open loads the workbook at path, creating it (with the named sheet) when
// it does not exist yet.
func Open(path, sheetName string, logger *slog.Logger) (*Store, error) {
	if sheetName == "" {
		sheetName = "Sheet1"
	}
	if logger == nil {
		logger = slog.Default()
	}

	var f *excelize.File
	if _, err := os.Stat(path); os.IsNotExist(err) {
		f = excelize.NewFile()
		if _, err := f.NewSheet(sheetName); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", sheetName, err)
		}
		if err := f.SaveAs(path); err != nil {
			return nil, fmt.Errorf("create workbook %s: %w", path, err)
		}
	} else {
		f, err = excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open workbook %s: %w", path, err)
		}
		if idx, _ := f.GetSheetIndex(sheetName); idx == -1 {
			return nil, fmt.Errorf("workbook %s has no sheet %q", path, sheetName)
		}
	}

	return &Store{path: path, sheet: sheetName, file: f, logger: logger}, nil
}

func (s *Store) ReadColumn(ctx context.Context, column string) (sheet.KeyColumnSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	colNum, err := excelize.ColumnNameToNumber(column)
	if err != nil {
		return nil, sheet.NewStoreError(sheet.KindInvalidAddress, "column "+column, err)
	}

	rows, err := s.file.GetRows(s.sheet)
	if err != nil {
		return nil, sheet.NewStoreError(sheet.KindTransport, "read sheet "+s.sheet, err)
	}

	snapshot := make(sheet.KeyColumnSnapshot, 0, len(rows))
	for _, row := range rows {
		if len(row) >= colNum {
			snapshot = append(snapshot, row[colNum-1])
		} else {
			snapshot = append(snapshot, "")
		}
	}
	return snapshot, nil
}

func (s *Store) WriteCell(ctx context.Context, address string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, _, err := excelize.CellNameToCoordinates(address); err != nil {
		return sheet.NewStoreError(sheet.KindInvalidAddress, "cell "+address, err)
	}
	if err := s.file.SetCellValue(s.sheet, address, value); err != nil {
		return sheet.NewStoreError(sheet.KindTransport, "set cell "+address, err)
	}
	if err := s.file.Save(); err != nil {
		return sheet.NewStoreError(sheet.KindTransport, "save workbook "+s.path, err)
	}
	return nil
}

// Close releases the underlying workbook handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
