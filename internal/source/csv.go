package source

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"vendure/importer/internal/domain"
)

// CSVSource reads header-mapped rows from a CSV file.
type CSVSource struct {
	path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (s *CSVSource) Name() string {
	return filepath.Base(s.path)
}

func (s *CSVSource) Rows() ([]domain.RawProductRow, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file %s: %w", s.path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // scraped files are ragged

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file %s: %w", s.path, err)
	}
	if len(records) < 2 {
		return nil, nil // header only, or empty
	}

	headers := records[0]
	rows := make([]domain.RawProductRow, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, rowFromRecord(headers, record))
	}
	return rows, nil
}
