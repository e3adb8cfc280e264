package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"placementcell/internal/common"
	"placementcell/internal/domain/drive"
)

const driveColumns = `id, company_id, role, ctc, min_cgpa, max_backlogs, eligible_branches, deadline, description, rounds, status, created_at`

type DriveRepository struct {
	db *sql.DB
}

func NewDriveRepository(db *sql.DB) *DriveRepository {
	return &DriveRepository{db: db}
}

func (r *DriveRepository) GetAll(ctx context.Context) ([]drive.Drive, error) {
	return r.list(ctx, `SELECT `+driveColumns+` FROM drives ORDER BY created_at DESC, id`)
}

func (r *DriveRepository) ListByCompany(ctx context.Context, companyID common.UUID) ([]drive.Drive, error) {
	return r.list(ctx, `SELECT `+driveColumns+` FROM drives WHERE company_id = $1 ORDER BY created_at DESC, id`, companyID)
}

func (r *DriveRepository) list(ctx context.Context, query string, args ...any) ([]drive.Drive, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list drives", err)
	}
	defer rows.Close()
	var items []drive.Drive
	for rows.Next() {
		d, err := scanDrive(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan drive", err)
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list drives", err)
	}
	return items, nil
}

func (r *DriveRepository) Get(ctx context.Context, id common.UUID) (*drive.Drive, error) {
	d, err := scanDrive(r.db.QueryRowContext(ctx, `SELECT `+driveColumns+` FROM drives WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "drive not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load drive", err)
	}
	return d, nil
}

func (r *DriveRepository) Save(ctx context.Context, d drive.Drive) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO drives (`+driveColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			company_id = EXCLUDED.company_id, role = EXCLUDED.role, ctc = EXCLUDED.ctc,
			min_cgpa = EXCLUDED.min_cgpa, max_backlogs = EXCLUDED.max_backlogs,
			eligible_branches = EXCLUDED.eligible_branches, deadline = EXCLUDED.deadline,
			description = EXCLUDED.description, rounds = EXCLUDED.rounds, status = EXCLUDED.status,
			created_at = EXCLUDED.created_at`,
		d.ID, d.CompanyID, d.Role, d.CTC, d.MinCGPA, d.MaxBacklogs, pq.Array(nonNil(d.EligibleBranches)),
		d.Deadline, d.Description, pq.Array(nonNil(d.Rounds)), d.Status, d.CreatedAt)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to save drive", err)
	}
	return nil
}

func (r *DriveRepository) Delete(ctx context.Context, id common.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM drives WHERE id = $1`, id); err != nil {
		return common.NewError(common.CodeInternal, "failed to delete drive", err)
	}
	return nil
}

func scanDrive(row scanner) (*drive.Drive, error) {
	var d drive.Drive
	if err := row.Scan(&d.ID, &d.CompanyID, &d.Role, &d.CTC, &d.MinCGPA, &d.MaxBacklogs, pq.Array(&d.EligibleBranches),
		&d.Deadline, &d.Description, pq.Array(&d.Rounds), &d.Status, &d.CreatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}
