package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateLocationsTable, downCreateLocationsTable)
}

func upCreateLocationsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE locations (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL UNIQUE,
			address TEXT
		);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateLocationsTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS locations;`
	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}
