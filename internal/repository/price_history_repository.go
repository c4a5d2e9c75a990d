package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rai-openclaw/mission-control/internal/model"
)

// PriceHistoryRepository provides data access methods for the price_history
// table, which keeps one row per symbol per refresh run.
type PriceHistoryRepository struct {
	db *sql.DB
}

// NewPriceHistoryRepository creates a new PriceHistoryRepository with the
// provided database connection.
func NewPriceHistoryRepository(db *sql.DB) *PriceHistoryRepository {
	return &PriceHistoryRepository{db: db}
}

// RecordRun inserts one history row per entry, all tagged with the same
// refresh run ID. The insert is transactional: a run is recorded completely
// or not at all.
func (r *PriceHistoryRepository) RecordRun(runID string, entries []model.PriceEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin price history transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO price_history (id, run_id, symbol, asset_class, price, source, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare price history insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		_, err := stmt.Exec(
			uuid.NewString(),
			runID,
			entry.Symbol,
			entry.Class,
			entry.Price,
			entry.Source,
			entry.Timestamp.UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert price history for %s: %w", entry.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit price history: %w", err)
	}
	return nil
}

// GetHistory retrieves the most recent recorded prices for a symbol, newest
// first, up to limit rows. Returns an empty slice if the symbol has never
// been fetched.
func (r *PriceHistoryRepository) GetHistory(symbol string, limit int) ([]model.PriceHistoryRecord, error) {
	rows, err := r.db.Query(`
		SELECT id, run_id, symbol, asset_class, price, source, fetched_at
		FROM price_history
		WHERE symbol = ?
		ORDER BY fetched_at DESC
		LIMIT ?
	`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer rows.Close()

	records := []model.PriceHistoryRecord{}
	for rows.Next() {
		var rec model.PriceHistoryRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.RunID,
			&rec.Symbol,
			&rec.AssetClass,
			&rec.Price,
			&rec.Source,
			&rec.FetchedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan price history row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate price history rows: %w", err)
	}

	return records, nil
}
