package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateRecurrencesTable, downCreateRecurrencesTable)
}

func upCreateRecurrencesTable(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE recurrences (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			mode TEXT NOT NULL CHECK (mode IN ('weekly', 'same_type')),
			end_date DATE NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
		);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateRecurrencesTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS recurrences;`
	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}
