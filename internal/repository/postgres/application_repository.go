package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"placementcell/internal/common"
	"placementcell/internal/domain/application"
)

const applicationColumns = `id, student_id, drive_id, status, current_round, round_statuses, applied_at, last_updated, verified, feedback`

// uniqueViolation is the SQLSTATE for a unique index conflict.
const uniqueViolation = "23505"

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) GetAll(ctx context.Context) ([]application.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications ORDER BY applied_at DESC, id`)
}

func (r *ApplicationRepository) ListByStudent(ctx context.Context, studentID common.UUID) ([]application.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE student_id = $1 ORDER BY applied_at DESC, id`, studentID)
}

func (r *ApplicationRepository) ListByDrive(ctx context.Context, driveID common.UUID) ([]application.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE drive_id = $1 ORDER BY applied_at DESC, id`, driveID)
}

func (r *ApplicationRepository) list(ctx context.Context, query string, args ...any) ([]application.Application, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	defer rows.Close()
	var items []application.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan application", err)
		}
		items = append(items, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	return items, nil
}

func (r *ApplicationRepository) Get(ctx context.Context, id common.UUID) (*application.Application, error) {
	return r.one(r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
}

func (r *ApplicationRepository) FindByDriveAndStudent(ctx context.Context, driveID, studentID common.UUID) (*application.Application, error) {
	return r.one(r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE drive_id = $1 AND student_id = $2`, driveID, studentID))
}

func (r *ApplicationRepository) one(row *sql.Row) (*application.Application, error) {
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	return app, nil
}

func (r *ApplicationRepository) Save(ctx context.Context, app application.Application) error {
	rounds := app.RoundStatuses
	if rounds == nil {
		rounds = []application.RoundStatus{}
	}
	encoded, err := json.Marshal(rounds)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to encode rounds", err)
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO applications (`+applicationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			student_id = EXCLUDED.student_id, drive_id = EXCLUDED.drive_id, status = EXCLUDED.status,
			current_round = EXCLUDED.current_round, round_statuses = EXCLUDED.round_statuses,
			applied_at = EXCLUDED.applied_at, last_updated = EXCLUDED.last_updated,
			verified = EXCLUDED.verified, feedback = EXCLUDED.feedback`,
		app.ID, app.StudentID, app.DriveID, app.Status, app.CurrentRound, string(encoded),
		app.AppliedAt, app.LastUpdated, app.Verified, app.Feedback)
	if err != nil {
		if isUniqueViolation(err) {
			return common.NewError(common.CodeConflict, "already applied", err)
		}
		return common.NewError(common.CodeInternal, "failed to save application", err)
	}
	return nil
}

func (r *ApplicationRepository) Delete(ctx context.Context, id common.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id); err != nil {
		return common.NewError(common.CodeInternal, "failed to delete application", err)
	}
	return nil
}

func scanApplication(row scanner) (*application.Application, error) {
	var (
		app     application.Application
		encoded []byte
	)
	if err := row.Scan(&app.ID, &app.StudentID, &app.DriveID, &app.Status, &app.CurrentRound, &encoded,
		&app.AppliedAt, &app.LastUpdated, &app.Verified, &app.Feedback); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(encoded, &app.RoundStatuses); err != nil {
		return nil, err
	}
	return &app, nil
}

// isUniqueViolation recognises the error shape of both registered drivers.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}
