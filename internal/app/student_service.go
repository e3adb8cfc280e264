package app

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"placementcell/internal/common"
	"placementcell/internal/domain/student"
	"placementcell/internal/eligibility"
	"placementcell/internal/security"
)

const minPasswordLength = 6

type StudentService struct {
	repo  student.Repository
	clock clock
	logSink
}

func NewStudentService(repo student.Repository, logger Logger) *StudentService {
	return &StudentService{repo: repo, logSink: logSink{logger: logger}}
}

type RegisterStudentInput struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	RollNo   string   `json:"roll_no"`
	Phone    string   `json:"phone"`
	Course   string   `json:"course"`
	Branch   string   `json:"branch"`
	Year     int      `json:"year"`
	CGPA     float64  `json:"cgpa"`
	Backlogs int      `json:"backlogs"`
	Skills   []string `json:"skills"`
}

// Register creates an unverified student account.
func (s *StudentService) Register(ctx context.Context, input RegisterStudentInput) (*student.Student, error) {
	fields := map[string]string{}
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" {
		fields["name"] = "name is required"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		fields["email"] = "email is invalid"
	}
	if len(input.Password) < minPasswordLength {
		fields["password"] = fmt.Sprintf("password must be at least %d characters", minPasswordLength)
	}
	validateAcademics(fields, input.CGPA, input.Backlogs, input.Year)
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid registration", fields)
	}
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, common.NewError(common.CodeConflict, "email already registered", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to hash password", err)
	}
	record := student.Student{
		ID:           common.NewUUID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		RollNo:       strings.TrimSpace(input.RollNo),
		Phone:        strings.TrimSpace(input.Phone),
		Course:       strings.TrimSpace(input.Course),
		Branch:       input.Branch,
		Year:         input.Year,
		CGPA:         input.CGPA,
		Backlogs:     input.Backlogs,
		Skills:       input.Skills,
		LastUpdated:  s.clock.now(),
	}
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, err
	}
	s.logInfo(fmt.Sprintf("student registered student_id=%s", record.ID))
	return &record, nil
}

func (s *StudentService) Get(ctx context.Context, id common.UUID) (*student.Student, error) {
	return s.repo.Get(ctx, id)
}

// ProfileUpdate carries the fields a student may edit. Verification,
// blacklist and placement are admin-owned and not part of it.
type ProfileUpdate struct {
	Name           *string   `json:"name"`
	Phone          *string   `json:"phone"`
	Course         *string   `json:"course"`
	Branch         *string   `json:"branch"`
	Year           *int      `json:"year"`
	CGPA           *float64  `json:"cgpa"`
	Backlogs       *int      `json:"backlogs"`
	Skills         *[]string `json:"skills"`
	Certifications *[]string `json:"certifications"`
	ResumeURL      *string   `json:"resume_url"`
}

func (s *StudentService) UpdateProfile(ctx context.Context, id common.UUID, upd ProfileUpdate) (*student.Student, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := *current
	if upd.Name != nil {
		next.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Phone != nil {
		next.Phone = strings.TrimSpace(*upd.Phone)
	}
	if upd.Course != nil {
		next.Course = strings.TrimSpace(*upd.Course)
	}
	if upd.Branch != nil {
		next.Branch = *upd.Branch
	}
	if upd.Year != nil {
		next.Year = *upd.Year
	}
	if upd.CGPA != nil {
		next.CGPA = *upd.CGPA
	}
	if upd.Backlogs != nil {
		next.Backlogs = *upd.Backlogs
	}
	if upd.Skills != nil {
		next.Skills = *upd.Skills
	}
	if upd.Certifications != nil {
		next.Certifications = *upd.Certifications
	}
	if upd.ResumeURL != nil {
		next.ResumeURL = strings.TrimSpace(*upd.ResumeURL)
	}
	fields := map[string]string{}
	if next.Name == "" {
		fields["name"] = "name is required"
	}
	validateAcademics(fields, next.CGPA, next.Backlogs, next.Year)
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid profile", fields)
	}
	next.LastUpdated = s.clock.now()
	if err := s.repo.Save(ctx, next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *StudentService) List(ctx context.Context, filter eligibility.StudentFilter) ([]student.Student, error) {
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return eligibility.FilterStudents(items, filter), nil
}

func (s *StudentService) Verify(ctx context.Context, id common.UUID, verified bool) (*student.Student, error) {
	return s.mutate(ctx, id, func(st *student.Student) { st.IsVerified = verified })
}

func (s *StudentService) SetBlacklisted(ctx context.Context, id common.UUID, blacklisted bool) (*student.Student, error) {
	return s.mutate(ctx, id, func(st *student.Student) { st.IsBlacklisted = blacklisted })
}

func (s *StudentService) mutate(ctx context.Context, id common.UUID, apply func(*student.Student)) (*student.Student, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(current)
	current.LastUpdated = s.clock.now()
	if err := s.repo.Save(ctx, *current); err != nil {
		return nil, err
	}
	return current, nil
}

// BulkResult reports how many records were written before the run stopped.
type BulkResult struct {
	Requested int `json:"requested"`
	Processed int `json:"processed"`
}

// BulkVerify, BulkBlacklist and BulkDelete write one record at a time in the
// given order. The first failure stops the run; earlier writes are kept.
func (s *StudentService) BulkVerify(ctx context.Context, ids []common.UUID) (BulkResult, error) {
	return s.bulk(ctx, "verify", ids, func(id common.UUID) error {
		_, err := s.Verify(ctx, id, true)
		return err
	})
}

func (s *StudentService) BulkBlacklist(ctx context.Context, ids []common.UUID, blacklisted bool) (BulkResult, error) {
	return s.bulk(ctx, "blacklist", ids, func(id common.UUID) error {
		_, err := s.SetBlacklisted(ctx, id, blacklisted)
		return err
	})
}

func (s *StudentService) BulkDelete(ctx context.Context, ids []common.UUID) (BulkResult, error) {
	return s.bulk(ctx, "delete", ids, func(id common.UUID) error {
		return s.Delete(ctx, id)
	})
}

func (s *StudentService) bulk(ctx context.Context, op string, ids []common.UUID, apply func(common.UUID) error) (BulkResult, error) {
	result := BulkResult{Requested: len(ids)}
	if len(ids) == 0 {
		return result, common.NewValidationError("invalid bulk request", map[string]string{"ids": "at least one id is required"})
	}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, common.NewError(common.CodeInternal, "bulk "+op+" interrupted", err)
		}
		if err := apply(id); err != nil {
			s.logError(fmt.Sprintf("bulk %s stopped student_id=%s processed=%d error=%v", op, id, result.Processed, err))
			return result, common.NewError(common.CodeInternal, fmt.Sprintf("bulk %s failed at student %s", op, id), err)
		}
		result.Processed++
	}
	s.logInfo(fmt.Sprintf("bulk %s done processed=%d", op, result.Processed))
	return result, nil
}

func (s *StudentService) Delete(ctx context.Context, id common.UUID) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

type ImportResult struct {
	Imported int               `json:"imported"`
	Skipped  map[string]string `json:"skipped,omitempty"`
}

// Import stores rows from a roster as unverified students. Rows without a
// usable email or whose email is already registered are skipped.
func (s *StudentService) Import(ctx context.Context, rows []student.Student) (ImportResult, error) {
	result := ImportResult{Skipped: map[string]string{}}
	now := s.clock.now()
	for i, row := range rows {
		key := fmt.Sprintf("row %d", i+1)
		row.Email = strings.TrimSpace(row.Email)
		row.Name = strings.TrimSpace(row.Name)
		if row.Name == "" {
			result.Skipped[key] = "name is required"
			continue
		}
		if _, err := mail.ParseAddress(row.Email); err != nil {
			result.Skipped[key] = "email is invalid"
			continue
		}
		if _, err := s.repo.FindByEmail(ctx, row.Email); err == nil {
			result.Skipped[key] = "email already registered"
			continue
		} else if !common.Is(err, common.CodeNotFound) {
			return result, err
		}
		if row.ID == "" {
			row.ID = common.NewUUID()
		}
		row.IsVerified = false
		row.IsBlacklisted = false
		row.LastUpdated = now
		if err := s.repo.Save(ctx, row); err != nil {
			return result, err
		}
		result.Imported++
	}
	if len(result.Skipped) == 0 {
		result.Skipped = nil
	}
	s.logInfo(fmt.Sprintf("student import done imported=%d skipped=%d", result.Imported, len(result.Skipped)))
	return result, nil
}

func validateAcademics(fields map[string]string, cgpa float64, backlogs, year int) {
	if cgpa < 0 || cgpa > 10 {
		fields["cgpa"] = "cgpa must be between 0 and 10"
	}
	if backlogs < 0 {
		fields["backlogs"] = "backlogs must not be negative"
	}
	if year < 0 {
		fields["year"] = "year must not be negative"
	}
}
