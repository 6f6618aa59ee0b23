package source

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"vendure/importer/internal/domain"
)

// XLSXSource reads header-mapped rows from the first sheet of a workbook.
type XLSXSource struct {
	path string
}

func NewXLSXSource(path string) *XLSXSource {
	return &XLSXSource{path: path}
}

func (s *XLSXSource) Name() string {
	return filepath.Base(s.path)
}

func (s *XLSXSource) Rows() ([]domain.RawProductRow, error) {
	workbook, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file %s: %w", s.path, err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("XLSX file %s has no sheets", s.path)
	}

	records, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	headers := records[0]
	rows := make([]domain.RawProductRow, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, rowFromRecord(headers, record))
	}
	return rows, nil
}
