package alert

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flightdeck-aero/flightdeck/internal/platform/database/schema"
	"github.com/flightdeck-aero/flightdeck/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx. Metadata lives in a
// jsonb column and round-trips as raw bytes.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the PostgreSQL implementation of the alert store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (repository *PostgresRepository) Create(ctx context.Context, a *BadConductAlert) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		schema.TrustBadConductAlert.Table,
		schema.TrustBadConductAlert.ID, schema.TrustBadConductAlert.UserID,
		schema.TrustBadConductAlert.AlertType, schema.TrustBadConductAlert.Severity,
		schema.TrustBadConductAlert.Description, schema.TrustBadConductAlert.Metadata,
		schema.TrustBadConductAlert.Status, schema.TrustBadConductAlert.CreatedAt,
	)

	_, err := repository.pool.Exec(ctx, query,
		a.ID, a.UserID, a.AlertType, a.Severity,
		a.Description, a.Metadata, a.Status, a.CreatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "create_alert")
	}

	return nil
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*BadConductAlert, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE %s = $1`,
		alertColumns(), schema.TrustBadConductAlert.Table, schema.TrustBadConductAlert.ID,
	)

	a := &BadConductAlert{}
	err := repository.pool.QueryRow(ctx, query, id).Scan(scanTargets(a)...)
	if err != nil {
		return nil, dberr.Wrap(err, "find_alert")
	}

	return a, nil
}

func (repository *PostgresRepository) List(ctx context.Context, f Filter, limit, offset int) ([]*BadConductAlert, int, error) {
	where := ""
	args := []any{}

	if len(f.Severities) > 0 {
		args = append(args, f.Severities)
		where += andWhere(where) + fmt.Sprintf("%s = ANY($%d)", schema.TrustBadConductAlert.Severity, len(args))
	}
	if len(f.Statuses) > 0 {
		args = append(args, f.Statuses)
		where += andWhere(where) + fmt.Sprintf("%s = ANY($%d)", schema.TrustBadConductAlert.Status, len(args))
	}

	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s`, schema.TrustBadConductAlert.Table) + where

	var total int
	if err := repository.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_alerts")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s`, alertColumns(), schema.TrustBadConductAlert.Table) +
		where +
		fmt.Sprintf(" ORDER BY %s DESC, %s DESC", schema.TrustBadConductAlert.CreatedAt, schema.TrustBadConductAlert.ID) +
		" LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_alerts")
	}
	defer rows.Close()

	alerts := make([]*BadConductAlert, 0)
	for rows.Next() {
		a := &BadConductAlert{}
		if err := rows.Scan(scanTargets(a)...); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_alert")
		}
		alerts = append(alerts, a)
	}

	return alerts, total, nil
}

func (repository *PostgresRepository) TransitionStatus(ctx context.Context, id string, expected, target Status, review Review) (*BadConductAlert, error) {
	// Compare-and-set on the status column, same contract as the report store.
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $3, %s = $4, %s = $5, %s = $6
		WHERE %s = $1 AND %s = $2
		RETURNING %s`,
		schema.TrustBadConductAlert.Table,
		schema.TrustBadConductAlert.Status, schema.TrustBadConductAlert.ReviewedByActorID,
		schema.TrustBadConductAlert.ReviewedAt, schema.TrustBadConductAlert.ResolutionNotes,
		schema.TrustBadConductAlert.ID, schema.TrustBadConductAlert.Status,
		alertColumns(),
	)

	a := &BadConductAlert{}
	err := repository.pool.QueryRow(ctx, query,
		id, expected, target, review.ActorID, review.ReviewedAt, review.Notes,
	).Scan(scanTargets(a)...)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStaleStatus
		}
		return nil, dberr.Wrap(err, "transition_alert")
	}

	return a, nil
}

// alertColumns returns the full select list in scan order.
func alertColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		schema.TrustBadConductAlert.ID, schema.TrustBadConductAlert.UserID,
		schema.TrustBadConductAlert.AlertType, schema.TrustBadConductAlert.Severity,
		schema.TrustBadConductAlert.Description, schema.TrustBadConductAlert.Metadata,
		schema.TrustBadConductAlert.Status, schema.TrustBadConductAlert.ReviewedByActorID,
		schema.TrustBadConductAlert.ReviewedAt, schema.TrustBadConductAlert.ResolutionNotes,
		schema.TrustBadConductAlert.CreatedAt,
	)
}

// scanTargets returns scan destinations matching [alertColumns] order.
func scanTargets(a *BadConductAlert) []any {
	return []any{
		&a.ID, &a.UserID, &a.AlertType, &a.Severity,
		&a.Description, &a.Metadata, &a.Status, &a.ReviewedByActorID,
		&a.ReviewedAt, &a.ResolutionNotes, &a.CreatedAt,
	}
}

// andWhere begins or extends a WHERE clause.
func andWhere(current string) string {
	if current == "" {
		return " WHERE "
	}
	return " AND "
}
