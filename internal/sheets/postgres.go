package sheets

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PostgresSource reads a worksheet mirrored into the sheet_rows table, one
// JSON array of cells per row.
type PostgresSource struct {
	db *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) Fetch(ctx context.Context, sheetID, worksheet string) ([][]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cells
		FROM sheet_rows
		WHERE sheet_id = $1 AND worksheet = $2
		ORDER BY row_index ASC
	`, sheetID, worksheet)
	if err != nil {
		return nil, fmt.Errorf("query sheet rows: %w", err)
	}
	defer rows.Close()

	var grid [][]string
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan sheet row: %w", err)
		}
		var cells []string
		if err := json.Unmarshal(raw, &cells); err != nil {
			return nil, fmt.Errorf("decode sheet row: %w", err)
		}
		grid = append(grid, cells)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return grid, nil
}

func (s *PostgresSource) Worksheets(ctx context.Context, sheetID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT worksheet FROM sheet_rows WHERE sheet_id = $1 ORDER BY worksheet`,
		sheetID,
	)
	if err != nil {
		return nil, fmt.Errorf("query worksheets: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan worksheet: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
