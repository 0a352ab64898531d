package database

import (
	"database/sql"
	"fmt"
)

// The mirror of the order sheet: one row per worksheet row, cells kept as
// a JSON array of strings so ragged rows survive unchanged.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS sheet_rows (
    sheet_id  TEXT    NOT NULL,
    worksheet TEXT    NOT NULL,
    row_index INTEGER NOT NULL,
    cells     JSONB   NOT NULL DEFAULT '[]'::jsonb,
    PRIMARY KEY (sheet_id, worksheet, row_index)
);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schemaSQL)
	if err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}
	return nil
}
