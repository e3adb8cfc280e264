package app

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"placementcell/internal/common"
	"placementcell/internal/domain/company"
	"placementcell/internal/security"
)

type CompanyService struct {
	repo  company.Repository
	clock clock
	logSink
}

func NewCompanyService(repo company.Repository, logger Logger) *CompanyService {
	return &CompanyService{repo: repo, logSink: logSink{logger: logger}}
}

type RegisterCompanyInput struct {
	Name        string `json:"name"`
	HRName      string `json:"hr_name"`
	HREmail     string `json:"hr_email"`
	Password    string `json:"password"`
	Description string `json:"description"`
}

// Register creates a company that cannot post drives until an admin
// approves it.
func (s *CompanyService) Register(ctx context.Context, input RegisterCompanyInput) (*company.Company, error) {
	fields := map[string]string{}
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.HREmail)
	if name == "" {
		fields["name"] = "name is required"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		fields["hr_email"] = "hr_email is invalid"
	}
	if len(input.Password) < minPasswordLength {
		fields["password"] = fmt.Sprintf("password must be at least %d characters", minPasswordLength)
	}
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
	record := company.Company{
		ID:           common.NewUUID(),
		Name:         name,
		HRName:       strings.TrimSpace(input.HRName),
		HREmail:      email,
		PasswordHash: hash,
		Description:  strings.TrimSpace(input.Description),
		CreatedAt:    s.clock.now(),
	}
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, err
	}
	s.logInfo(fmt.Sprintf("company registered company_id=%s", record.ID))
	return &record, nil
}

func (s *CompanyService) Approve(ctx context.Context, id common.UUID, approved bool) (*company.Company, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	current.IsApproved = approved
	if err := s.repo.Save(ctx, *current); err != nil {
		return nil, err
	}
	s.logInfo(fmt.Sprintf("company approval changed company_id=%s approved=%t", id, approved))
	return current, nil
}

func (s *CompanyService) List(ctx context.Context) ([]company.Company, error) {
	return s.repo.GetAll(ctx)
}

func (s *CompanyService) Get(ctx context.Context, id common.UUID) (*company.Company, error) {
	return s.repo.Get(ctx, id)
}
