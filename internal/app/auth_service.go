package app

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"placementcell/internal/common"
	"placementcell/internal/domain/company"
	"placementcell/internal/domain/student"
	"placementcell/internal/domain/user"
	"placementcell/internal/security"
)

// AdminSubjectID identifies the single configured administrator.
const AdminSubjectID common.UUID = "admin"

type AdminCredentials struct {
	Email    string
	Password string
}

type AuthService struct {
	students    student.Repository
	companies   company.Repository
	jwtProvider *security.JWTProvider
	admin       AdminCredentials
	accessTTL   time.Duration
	logSink
}

func NewAuthService(students student.Repository, companies company.Repository, jwtProvider *security.JWTProvider, admin AdminCredentials, accessTTL time.Duration, logger Logger) *AuthService {
	return &AuthService{
		students:    students,
		companies:   companies,
		jwtProvider: jwtProvider,
		admin:       admin,
		accessTTL:   accessTTL,
		logSink:     logSink{logger: logger},
	}
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type Session struct {
	AccessToken string        `json:"access_token"`
	ExpiresAt   time.Time     `json:"expires_at"`
	Identity    user.Identity `json:"identity"`
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*Session, error) {
	role, ok := user.ParseRole(strings.ToLower(strings.TrimSpace(input.Role)))
	if !ok {
		return nil, common.NewValidationError("invalid login", map[string]string{"role": "role must be admin, student, or recruiter"})
	}
	email := strings.TrimSpace(input.Email)
	var identity user.Identity
	switch role {
	case user.RoleAdmin:
		if s.admin.Email == "" || !strings.EqualFold(email, s.admin.Email) ||
			subtle.ConstantTimeCompare([]byte(input.Password), []byte(s.admin.Password)) != 1 {
			return nil, errInvalidCredentials()
		}
		identity = user.Identity{SubjectID: AdminSubjectID, Role: user.RoleAdmin, Name: "Admin"}
	case user.RoleStudent:
		account, err := s.students.FindByEmail(ctx, email)
		if err != nil {
			if common.Is(err, common.CodeNotFound) {
				return nil, errInvalidCredentials()
			}
			return nil, err
		}
		if !security.CheckPassword(input.Password, account.PasswordHash) {
			return nil, errInvalidCredentials()
		}
		identity = user.Identity{SubjectID: account.ID, Role: user.RoleStudent, Name: account.Name}
	case user.RoleRecruiter:
		account, err := s.companies.FindByEmail(ctx, email)
		if err != nil {
			if common.Is(err, common.CodeNotFound) {
				return nil, errInvalidCredentials()
			}
			return nil, err
		}
		if !security.CheckPassword(input.Password, account.PasswordHash) {
			return nil, errInvalidCredentials()
		}
		if !account.IsApproved {
			return nil, common.NewError(common.CodeForbidden, "company is pending approval", nil)
		}
		identity = user.Identity{SubjectID: account.ID, Role: user.RoleRecruiter, Name: account.HRName}
	}
	token, expiresAt, err := s.jwtProvider.Generate(identity, s.accessTTL)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to issue token", err)
	}
	s.logInfo(fmt.Sprintf("login succeeded role=%s subject_id=%s", identity.Role, identity.SubjectID))
	return &Session{AccessToken: token, ExpiresAt: expiresAt, Identity: identity}, nil
}

func errInvalidCredentials() error {
	return common.NewError(common.CodeUnauthorized, "invalid credentials", nil)
}
