package postgres

import (
	"context"
	"database/sql"
	"errors"

	"placementcell/internal/common"
	"placementcell/internal/domain/company"
)

const companyColumns = `id, name, hr_name, hr_email, password_hash, is_approved, description, created_at`

type CompanyRepository struct {
	db *sql.DB
}

func NewCompanyRepository(db *sql.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) GetAll(ctx context.Context) ([]company.Company, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY id`)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list companies", err)
	}
	defer rows.Close()
	var items []company.Company
	for rows.Next() {
		var c company.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.HRName, &c.HREmail, &c.PasswordHash, &c.IsApproved, &c.Description, &c.CreatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan company", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list companies", err)
	}
	return items, nil
}

func (r *CompanyRepository) Get(ctx context.Context, id common.UUID) (*company.Company, error) {
	return r.one(r.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
}

func (r *CompanyRepository) FindByEmail(ctx context.Context, email string) (*company.Company, error) {
	return r.one(r.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE lower(hr_email) = lower($1) LIMIT 1`, email))
}

func (r *CompanyRepository) one(row *sql.Row) (*company.Company, error) {
	var c company.Company
	if err := row.Scan(&c.ID, &c.Name, &c.HRName, &c.HREmail, &c.PasswordHash, &c.IsApproved, &c.Description, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "company not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load company", err)
	}
	return &c, nil
}

func (r *CompanyRepository) Save(ctx context.Context, c company.Company) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO companies (`+companyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, hr_name = EXCLUDED.hr_name, hr_email = EXCLUDED.hr_email,
			password_hash = EXCLUDED.password_hash, is_approved = EXCLUDED.is_approved,
			description = EXCLUDED.description, created_at = EXCLUDED.created_at`,
		c.ID, c.Name, c.HRName, c.HREmail, c.PasswordHash, c.IsApproved, c.Description, c.CreatedAt)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to save company", err)
	}
	return nil
}

func (r *CompanyRepository) Delete(ctx context.Context, id common.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id); err != nil {
		return common.NewError(common.CodeInternal, "failed to delete company", err)
	}
	return nil
}
