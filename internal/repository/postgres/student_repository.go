package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lib/pq"

	"placementcell/internal/common"
	"placementcell/internal/domain/student"
)

const studentColumns = `id, name, email, password_hash, roll_no, phone, course, branch, year, cgpa, backlogs,
	skills, certifications, resume_url, is_verified, is_blacklisted, placed_company_id, custom_fields, last_updated`

type StudentRepository struct {
	db *sql.DB
}

func NewStudentRepository(db *sql.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) GetAll(ctx context.Context) ([]student.Student, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+studentColumns+` FROM students ORDER BY id`)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list students", err)
	}
	defer rows.Close()
	var items []student.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan student", err)
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list students", err)
	}
	return items, nil
}

func (r *StudentRepository) Get(ctx context.Context, id common.UUID) (*student.Student, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id)
	return r.one(row)
}

func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*student.Student, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+studentColumns+` FROM students WHERE lower(email) = lower($1) LIMIT 1`, email)
	return r.one(row)
}

func (r *StudentRepository) one(row *sql.Row) (*student.Student, error) {
	s, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "student not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load student", err)
	}
	return s, nil
}

func (r *StudentRepository) Save(ctx context.Context, s student.Student) error {
	custom, err := json.Marshal(nonNilMap(s.CustomFields))
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to encode custom fields", err)
	}
	var placed sql.NullString
	if s.PlacedCompanyID != nil {
		placed = sql.NullString{String: s.PlacedCompanyID.String(), Valid: true}
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO students (`+studentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, email = EXCLUDED.email, password_hash = EXCLUDED.password_hash,
			roll_no = EXCLUDED.roll_no, phone = EXCLUDED.phone, course = EXCLUDED.course,
			branch = EXCLUDED.branch, year = EXCLUDED.year, cgpa = EXCLUDED.cgpa, backlogs = EXCLUDED.backlogs,
			skills = EXCLUDED.skills, certifications = EXCLUDED.certifications, resume_url = EXCLUDED.resume_url,
			is_verified = EXCLUDED.is_verified, is_blacklisted = EXCLUDED.is_blacklisted,
			placed_company_id = EXCLUDED.placed_company_id, custom_fields = EXCLUDED.custom_fields,
			last_updated = EXCLUDED.last_updated`,
		s.ID, s.Name, s.Email, s.PasswordHash, s.RollNo, s.Phone, s.Course, s.Branch, s.Year, s.CGPA, s.Backlogs,
		pq.Array(nonNil(s.Skills)), pq.Array(nonNil(s.Certifications)), s.ResumeURL, s.IsVerified, s.IsBlacklisted,
		placed, string(custom), s.LastUpdated)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to save student", err)
	}
	return nil
}

func (r *StudentRepository) Delete(ctx context.Context, id common.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		return common.NewError(common.CodeInternal, "failed to delete student", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStudent(row scanner) (*student.Student, error) {
	var (
		s      student.Student
		placed sql.NullString
		custom []byte
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.RollNo, &s.Phone, &s.Course, &s.Branch,
		&s.Year, &s.CGPA, &s.Backlogs, pq.Array(&s.Skills), pq.Array(&s.Certifications), &s.ResumeURL,
		&s.IsVerified, &s.IsBlacklisted, &placed, &custom, &s.LastUpdated); err != nil {
		return nil, err
	}
	if placed.Valid {
		id := common.UUID(placed.String)
		s.PlacedCompanyID = &id
	}
	if len(custom) > 0 {
		if err := json.Unmarshal(custom, &s.CustomFields); err != nil {
			return nil, err
		}
		if len(s.CustomFields) == 0 {
			s.CustomFields = nil
		}
	}
	return &s, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func nonNilMap(values map[string]string) map[string]string {
	if values == nil {
		return map[string]string{}
	}
	return values
}
