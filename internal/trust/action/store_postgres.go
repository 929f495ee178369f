package action

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flightdeck-aero/flightdeck/internal/platform/database/schema"
	"github.com/flightdeck-aero/flightdeck/internal/platform/dberr"
)

// PostgresLedger implements [Ledger] using pgx.
//
// The trust.moderationaction table carries no updatedat column on purpose:
// rows are written once and only ever read back.
type PostgresLedger struct {
	pool *pgxpool.Pool
}

// NewPostgresLedger creates the PostgreSQL implementation of the ledger.
func NewPostgresLedger(pool *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{pool: pool}
}

func (ledger *PostgresLedger) Append(ctx context.Context, entry *ModerationAction) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		schema.TrustModerationAction.Table,
		schema.TrustModerationAction.ID, schema.TrustModerationAction.TargetUserID,
		schema.TrustModerationAction.ActionType, schema.TrustModerationAction.Reason,
		schema.TrustModerationAction.Severity, schema.TrustModerationAction.IssuedByActorID,
		schema.TrustModerationAction.IssuedByRole, schema.TrustModerationAction.IssuedAt,
		schema.TrustModerationAction.SuspensionEndDate, schema.TrustModerationAction.IsActive,
	)

	_, err := ledger.pool.Exec(ctx, query,
		entry.ID,
		entry.TargetUserID,
		entry.ActionType,
		entry.Reason,
		entry.Severity,
		entry.IssuedByActorID,
		entry.IssuedByRole,
		entry.IssuedAt,
		entry.SuspensionEndDate,
		entry.IsActive,
	)
	if err != nil {
		return dberr.Wrap(err, "append_moderation_action")
	}

	return nil
}

func (ledger *PostgresLedger) FindByID(ctx context.Context, id string) (*ModerationAction, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.TrustModerationAction.ID, schema.TrustModerationAction.TargetUserID,
		schema.TrustModerationAction.ActionType, schema.TrustModerationAction.Reason,
		schema.TrustModerationAction.Severity, schema.TrustModerationAction.IssuedByActorID,
		schema.TrustModerationAction.IssuedByRole, schema.TrustModerationAction.IssuedAt,
		schema.TrustModerationAction.SuspensionEndDate, schema.TrustModerationAction.IsActive,
		schema.TrustModerationAction.Table,
		schema.TrustModerationAction.ID,
	)

	entry := &ModerationAction{}
	err := ledger.pool.QueryRow(ctx, query, id).Scan(
		&entry.ID,
		&entry.TargetUserID,
		&entry.ActionType,
		&entry.Reason,
		&entry.Severity,
		&entry.IssuedByActorID,
		&entry.IssuedByRole,
		&entry.IssuedAt,
		&entry.SuspensionEndDate,
		&entry.IsActive,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_moderation_action")
	}

	return entry, nil
}

func (ledger *PostgresLedger) HistoryFor(ctx context.Context, userID string) ([]ModerationAction, error) {
	// Newest first, ties broken by id. The id is a UUIDv7, so the tie-break
	// still follows true issue order.
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC, %s DESC`,
		schema.TrustModerationAction.ID, schema.TrustModerationAction.TargetUserID,
		schema.TrustModerationAction.ActionType, schema.TrustModerationAction.Reason,
		schema.TrustModerationAction.Severity, schema.TrustModerationAction.IssuedByActorID,
		schema.TrustModerationAction.IssuedByRole, schema.TrustModerationAction.IssuedAt,
		schema.TrustModerationAction.SuspensionEndDate, schema.TrustModerationAction.IsActive,
		schema.TrustModerationAction.Table,
		schema.TrustModerationAction.TargetUserID,
		schema.TrustModerationAction.IssuedAt, schema.TrustModerationAction.ID,
	)

	rows, err := ledger.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "history_for_user")
	}
	defer rows.Close()

	history := make([]ModerationAction, 0)
	for rows.Next() {
		entry := ModerationAction{}
		if err := rows.Scan(
			&entry.ID,
			&entry.TargetUserID,
			&entry.ActionType,
			&entry.Reason,
			&entry.Severity,
			&entry.IssuedByActorID,
			&entry.IssuedByRole,
			&entry.IssuedAt,
			&entry.SuspensionEndDate,
			&entry.IsActive,
		); err != nil {
			return nil, dberr.Wrap(err, "scan_moderation_action")
		}
		history = append(history, entry)
	}

	return history, nil
}
