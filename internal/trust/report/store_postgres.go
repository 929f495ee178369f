package report

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

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the PostgreSQL implementation of the report store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (repository *PostgresRepository) Create(ctx context.Context, r *ContentReport) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		schema.TrustContentReport.Table,
		schema.TrustContentReport.ID, schema.TrustContentReport.ReporterUserID,
		schema.TrustContentReport.ContentType, schema.TrustContentReport.ContentID,
		schema.TrustContentReport.Reason, schema.TrustContentReport.Details,
		schema.TrustContentReport.Status, schema.TrustContentReport.CreatedAt,
	)

	_, err := repository.pool.Exec(ctx, query,
		r.ID, r.ReporterUserID, r.ContentType, r.ContentID,
		r.Reason, r.Details, r.Status, r.CreatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "create_report")
	}

	return nil
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*ContentReport, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE %s = $1`,
		reportColumns(), schema.TrustContentReport.Table, schema.TrustContentReport.ID,
	)

	r := &ContentReport{}
	err := repository.pool.QueryRow(ctx, query, id).Scan(scanTargets(r)...)
	if err != nil {
		return nil, dberr.Wrap(err, "find_report")
	}

	return r, nil
}

func (repository *PostgresRepository) List(ctx context.Context, f Filter, limit, offset int) ([]*ContentReport, int, error) {
	baseWhere := ""
	args := []any{}

	if len(f.Statuses) > 0 {
		baseWhere = fmt.Sprintf(" WHERE %s = ANY($1)", schema.TrustContentReport.Status)
		args = append(args, f.Statuses)
	}

	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s`, schema.TrustContentReport.Table) + baseWhere

	var total int
	if err := repository.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_reports")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s`, reportColumns(), schema.TrustContentReport.Table) +
		baseWhere +
		fmt.Sprintf(" ORDER BY %s DESC, %s DESC", schema.TrustContentReport.CreatedAt, schema.TrustContentReport.ID) +
		" LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_reports")
	}
	defer rows.Close()

	reports := make([]*ContentReport, 0)
	for rows.Next() {
		r := &ContentReport{}
		if err := rows.Scan(scanTargets(r)...); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_report")
		}
		reports = append(reports, r)
	}

	return reports, total, nil
}

func (repository *PostgresRepository) TransitionStatus(ctx context.Context, id string, expected, target Status, review Review) (*ContentReport, error) {
	// Compare-and-set on the status column. Zero rows back means either the
	// report is gone or another reviewer moved it first; the two cases are
	// told apart below without holding a transaction open.
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $3, %s = $4, %s = $5, %s = $6
		WHERE %s = $1 AND %s = $2
		RETURNING %s`,
		schema.TrustContentReport.Table,
		schema.TrustContentReport.Status, schema.TrustContentReport.ReviewedByActorID,
		schema.TrustContentReport.ReviewedAt, schema.TrustContentReport.AdminNotes,
		schema.TrustContentReport.ID, schema.TrustContentReport.Status,
		reportColumns(),
	)

	r := &ContentReport{}
	err := repository.pool.QueryRow(ctx, query,
		id, expected, target, review.ActorID, review.ReviewedAt, review.Notes,
	).Scan(scanTargets(r)...)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStaleStatus
		}
		return nil, dberr.Wrap(err, "transition_report")
	}

	return r, nil
}

// reportColumns returns the full select list in scan order.
func reportColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		schema.TrustContentReport.ID, schema.TrustContentReport.ReporterUserID,
		schema.TrustContentReport.ContentType, schema.TrustContentReport.ContentID,
		schema.TrustContentReport.Reason, schema.TrustContentReport.Details,
		schema.TrustContentReport.Status, schema.TrustContentReport.ReviewedByActorID,
		schema.TrustContentReport.ReviewedAt, schema.TrustContentReport.AdminNotes,
		schema.TrustContentReport.CreatedAt,
	)
}

// scanTargets returns scan destinations matching [reportColumns] order.
func scanTargets(r *ContentReport) []any {
	return []any{
		&r.ID, &r.ReporterUserID, &r.ContentType, &r.ContentID,
		&r.Reason, &r.Details, &r.Status, &r.ReviewedByActorID,
		&r.ReviewedAt, &r.AdminNotes, &r.CreatedAt,
	}
}
