package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ImportRecord is one terminal row outcome, kept as a restart-safe audit of
// what was imported and why the rest was not.
type ImportRecord struct {
	Slug      string
	Name      string
	ProductID string
	Status    string // created | failed | skipped
	Error     string
	Source    string
	RowNumber int
}

type ImportLedger interface {
	SaveOutcome(ctx context.Context, record ImportRecord) error
}

type importLedger struct {
	db *pgxpool.Pool
}

func NewImportLedger(db *pgxpool.Pool) ImportLedger {
	return &importLedger{
		db: db,
	}
}

func (r *importLedger) SaveOutcome(ctx context.Context, record ImportRecord) error {
	query := `
	INSERT INTO import_rows (slug, name, product_id, status, error, source, row_number, imported_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (slug)
	DO UPDATE SET name = $2, product_id = $3, status = $4, error = $5, source = $6, row_number = $7, imported_at = $8`
	_, err := r.db.Exec(ctx, query,
		record.Slug,
		record.Name,
		record.ProductID,
		record.Status,
		record.Error,
		record.Source,
		record.RowNumber,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save import outcome: %w", err)
	}

	return nil
}
