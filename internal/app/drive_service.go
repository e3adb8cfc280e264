package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"placementcell/internal/common"
	"placementcell/internal/domain/company"
	"placementcell/internal/domain/drive"
	"placementcell/internal/domain/student"
	"placementcell/internal/domain/user"
	"placementcell/internal/eligibility"
)

// DriveAnnouncer is told about every new drive. Failures are logged and do
// not undo the drive.
type DriveAnnouncer interface {
	AnnounceDrive(ctx context.Context, d drive.Drive, c company.Company) (int, error)
}

type DriveService struct {
	drives    drive.Repository
	companies company.Repository
	students  student.Repository
	announcer DriveAnnouncer
	clock     clock
	logSink
}

func NewDriveService(drives drive.Repository, companies company.Repository, students student.Repository, announcer DriveAnnouncer, logger Logger) *DriveService {
	return &DriveService{drives: drives, companies: companies, students: students, announcer: announcer, logSink: logSink{logger: logger}}
}

type CreateDriveInput struct {
	Role             string       `json:"role"`
	CTC              string       `json:"ctc"`
	MinCGPA          float64      `json:"min_cgpa"`
	MaxBacklogs      int          `json:"max_backlogs"`
	EligibleBranches []string     `json:"eligible_branches"`
	Deadline         string       `json:"deadline"`
	Description      string       `json:"description"`
	Rounds           []string     `json:"rounds"`
	Status           drive.Status `json:"status"`
}

func (s *DriveService) Create(ctx context.Context, identity user.Identity, input CreateDriveInput) (*drive.Drive, error) {
	if identity.Role != user.RoleRecruiter {
		return nil, common.NewError(common.CodeForbidden, "only recruiters can post drives", nil)
	}
	owner, err := s.companies.Get(ctx, identity.SubjectID)
	if err != nil {
		return nil, err
	}
	if !owner.IsApproved {
		return nil, common.NewError(common.CodeForbidden, "company is not approved", nil)
	}
	fields := map[string]string{}
	role := strings.TrimSpace(input.Role)
	if role == "" {
		fields["role"] = "role is required"
	}
	if input.MinCGPA < 0 || input.MinCGPA > 10 {
		fields["min_cgpa"] = "min_cgpa must be between 0 and 10"
	}
	if input.MaxBacklogs < 0 {
		fields["max_backlogs"] = "max_backlogs must not be negative"
	}
	if len(input.EligibleBranches) == 0 {
		fields["eligible_branches"] = "at least one branch is required"
	}
	if _, ok := eligibility.ParseDeadline(input.Deadline, time.UTC); !ok {
		fields["deadline"] = "deadline must be YYYY-MM-DD or RFC3339"
	}
	status := input.Status
	if status == "" {
		status = drive.StatusOpen
	}
	if status != drive.StatusOpen && status != drive.StatusClosed {
		fields["status"] = "status must be Open or Closed"
	}
	rounds := make([]string, 0, len(input.Rounds))
	for _, round := range input.Rounds {
		if name := strings.TrimSpace(round); name != "" {
			rounds = append(rounds, name)
		}
	}
	if len(rounds) == 0 {
		rounds = append(rounds, drive.DefaultRounds...)
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid drive", fields)
	}
	record := drive.Drive{
		ID:               common.NewUUID(),
		CompanyID:        owner.ID,
		Role:             role,
		CTC:              strings.TrimSpace(input.CTC),
		MinCGPA:          input.MinCGPA,
		MaxBacklogs:      input.MaxBacklogs,
		EligibleBranches: input.EligibleBranches,
		Deadline:         strings.TrimSpace(input.Deadline),
		Description:      input.Description,
		Rounds:           rounds,
		Status:           status,
		CreatedAt:        s.clock.now(),
	}
	if err := s.drives.Save(ctx, record); err != nil {
		return nil, err
	}
	s.logInfo(fmt.Sprintf("drive created drive_id=%s company_id=%s", record.ID, owner.ID))
	if s.announcer != nil {
		sent, err := s.announcer.AnnounceDrive(ctx, record, *owner)
		if err != nil {
			s.logError(fmt.Sprintf("drive announcement failed drive_id=%s error=%v", record.ID, err))
		} else {
			s.logInfo(fmt.Sprintf("drive announced drive_id=%s recipients=%d", record.ID, sent))
		}
	}
	return &record, nil
}

func (s *DriveService) UpdateStatus(ctx context.Context, identity user.Identity, driveID common.UUID, status drive.Status) (*drive.Drive, error) {
	if status != drive.StatusOpen && status != drive.StatusClosed {
		return nil, common.NewValidationError("invalid status", map[string]string{"status": "status must be Open or Closed"})
	}
	current, err := s.ownedDrive(ctx, identity, driveID)
	if err != nil {
		return nil, err
	}
	current.Status = status
	if err := s.drives.Save(ctx, *current); err != nil {
		return nil, err
	}
	return current, nil
}

func (s *DriveService) Get(ctx context.Context, driveID common.UUID) (*drive.Drive, error) {
	return s.drives.Get(ctx, driveID)
}

func (s *DriveService) ListByCompany(ctx context.Context, companyID common.UUID) ([]drive.Drive, error) {
	return s.drives.ListByCompany(ctx, companyID)
}

func (s *DriveService) ListAll(ctx context.Context) ([]drive.Drive, error) {
	return s.drives.GetAll(ctx)
}

// EligibleForStudent lists the drives the student may apply to today.
func (s *DriveService) EligibleForStudent(ctx context.Context, studentID common.UUID) ([]drive.Drive, error) {
	profile, err := s.students.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}
	drives, err := s.drives.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	companies, err := s.companies.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return eligibility.EligibleDrivesForStudent(*profile, drives, companies, s.clock.now()), nil
}

// EligibleCandidates lists verified, non-blacklisted students meeting the
// drive's academic bar.
func (s *DriveService) EligibleCandidates(ctx context.Context, identity user.Identity, driveID common.UUID) ([]student.Student, error) {
	d, err := s.ownedDrive(ctx, identity, driveID)
	if err != nil {
		return nil, err
	}
	students, err := s.students.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return eligibility.EligibleStudentsForDrive(*d, students), nil
}

// ownedDrive loads a drive the caller may manage: admins see every drive,
// recruiters only their company's.
func (s *DriveService) ownedDrive(ctx context.Context, identity user.Identity, driveID common.UUID) (*drive.Drive, error) {
	d, err := s.drives.Get(ctx, driveID)
	if err != nil {
		return nil, err
	}
	if err := authorizeDrive(identity, *d); err != nil {
		return nil, err
	}
	return d, nil
}

func authorizeDrive(identity user.Identity, d drive.Drive) error {
	if identity.IsAdmin() {
		return nil
	}
	if identity.Role == user.RoleRecruiter && identity.SubjectID == d.CompanyID {
		return nil
	}
	return common.NewError(common.CodeForbidden, "drive belongs to another company", nil)
}
