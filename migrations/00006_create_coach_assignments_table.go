package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateCoachAssignmentsTable, downCreateCoachAssignmentsTable)
}

func upCreateCoachAssignmentsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE coach_assignments (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			session_id UUID NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			coach_id UUID NOT NULL REFERENCES members(id) ON DELETE CASCADE,
			status TEXT NOT NULL DEFAULT 'confirmed' CHECK (status IN ('confirmed', 'withdrawn')),
			role TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
			CONSTRAINT unique_coach_per_session UNIQUE (session_id, coach_id)
		);
		CREATE INDEX idx_coach_assignments_coach ON coach_assignments (coach_id);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateCoachAssignmentsTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS coach_assignments;`
	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}
