package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateSessionsTable, downCreateSessionsTable)
}

func upCreateSessionsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE sessions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			category_id UUID REFERENCES categories(id) ON DELETE RESTRICT,
			location_id UUID REFERENCES locations(id) ON DELETE RESTRICT,
			start_at TIMESTAMP WITH TIME ZONE NOT NULL,
			duration_min INT NOT NULL DEFAULT 60 CHECK (duration_min > 0),
			notes TEXT NOT NULL DEFAULT '',
			min_coaches INT NOT NULL DEFAULT 1,
			constraint_tag TEXT NOT NULL DEFAULT 'all' CHECK (constraint_tag IN ('all', 'youth', 'adult', 'team')),
			recurrence_id UUID REFERENCES recurrences(id) ON DELETE RESTRICT,
			is_cancelled BOOLEAN NOT NULL DEFAULT false,
			is_locked BOOLEAN NOT NULL DEFAULT false,
			created_by UUID,
			week_iso SMALLINT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
		);
		CREATE INDEX idx_sessions_week_iso ON sessions (week_iso);
		CREATE INDEX idx_sessions_recurrence_start ON sessions (recurrence_id, start_at);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateSessionsTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS sessions;`
	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}
