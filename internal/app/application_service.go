package app

import (
	"context"
	"fmt"

	"placementcell/internal/common"
	"placementcell/internal/domain/application"
	"placementcell/internal/domain/company"
	"placementcell/internal/domain/drive"
	"placementcell/internal/domain/student"
	"placementcell/internal/domain/user"
	"placementcell/internal/eligibility"
	"placementcell/internal/lifecycle"
)

type ApplicationService struct {
	repo      application.Repository
	drives    drive.Repository
	companies company.Repository
	students  student.Repository
	// strict turns on the round and application guards for UpdateRound.
	strict bool
	clock  clock
	logSink
}

func NewApplicationService(repo application.Repository, drives drive.Repository, companies company.Repository, students student.Repository, strict bool, logger Logger) *ApplicationService {
	return &ApplicationService{
		repo:      repo,
		drives:    drives,
		companies: companies,
		students:  students,
		strict:    strict,
		logSink:   logSink{logger: logger},
	}
}

func (s *ApplicationService) Apply(ctx context.Context, identity user.Identity, driveID common.UUID) (*application.Application, error) {
	if identity.Role != user.RoleStudent {
		return nil, common.NewError(common.CodeForbidden, "only students can apply", nil)
	}
	applicant, err := s.students.Get(ctx, identity.SubjectID)
	if err != nil {
		return nil, err
	}
	if !applicant.IsVerified {
		return nil, common.NewError(common.CodeForbidden, "student profile is not verified", nil)
	}
	d, err := s.drives.Get(ctx, driveID)
	if err != nil {
		return nil, err
	}
	owner, err := s.companies.Get(ctx, d.CompanyID)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeValidation, "not eligible for this drive", nil)
		}
		return nil, err
	}
	now := s.clock.now()
	if !eligibility.IsEligible(*applicant, *d, *owner, now) {
		return nil, common.NewError(common.CodeValidation, "not eligible for this drive", nil)
	}
	if _, err := s.repo.FindByDriveAndStudent(ctx, driveID, applicant.ID); err == nil {
		return nil, common.NewError(common.CodeConflict, "already applied", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	app, err := lifecycle.CreateApplication(common.NewUUID(), *applicant, *d, now)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, app); err != nil {
		return nil, err
	}
	s.logInfo(fmt.Sprintf("application created application_id=%s drive_id=%s student_id=%s", app.ID, driveID, applicant.ID))
	return &app, nil
}

// UpdateRound records a round decision by an admin or the recruiter who owns
// the drive.
func (s *ApplicationService) UpdateRound(ctx context.Context, identity user.Identity, applicationID common.UUID, upd lifecycle.RoundUpdate) (*application.Application, error) {
	current, err := s.repo.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	d, err := s.drives.Get(ctx, current.DriveID)
	if err != nil {
		return nil, err
	}
	if err := authorizeDrive(identity, *d); err != nil {
		return nil, err
	}
	if s.strict {
		if err := lifecycle.CheckApplicationOpen(*current); err != nil {
			return nil, err
		}
		if upd.RoundIndex >= 0 && upd.RoundIndex < len(current.RoundStatuses) {
			if err := lifecycle.CheckRoundTransition(current.RoundStatuses[upd.RoundIndex].Status, upd.Status); err != nil {
				return nil, err
			}
		}
	}
	upd.UpdatedBy = updatedBy(identity)
	next, err := lifecycle.UpdateRound(*current, upd, s.clock.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, next); err != nil {
		return nil, err
	}
	s.logInfo(fmt.Sprintf("round updated application_id=%s round=%d status=%s overall=%s", next.ID, upd.RoundIndex, upd.Status, next.Status))
	return &next, nil
}

// OverrideStatus sets the overall status without touching rounds.
func (s *ApplicationService) OverrideStatus(ctx context.Context, applicationID common.UUID, status application.Status, feedback *string) (*application.Application, error) {
	current, err := s.repo.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	next, err := lifecycle.OverrideStatus(*current, status, feedback, s.clock.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, next); err != nil {
		return nil, err
	}
	s.logInfo(fmt.Sprintf("application status overridden application_id=%s status=%s", next.ID, next.Status))
	return &next, nil
}

func (s *ApplicationService) Delete(ctx context.Context, applicationID common.UUID) error {
	if _, err := s.repo.Get(ctx, applicationID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, applicationID)
}

func (s *ApplicationService) Get(ctx context.Context, identity user.Identity, applicationID common.UUID) (*application.Application, error) {
	app, err := s.repo.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	switch identity.Role {
	case user.RoleAdmin:
		return app, nil
	case user.RoleStudent:
		if app.StudentID == identity.SubjectID {
			return app, nil
		}
	case user.RoleRecruiter:
		d, err := s.drives.Get(ctx, app.DriveID)
		if err != nil {
			return nil, err
		}
		if d.CompanyID == identity.SubjectID {
			return app, nil
		}
	}
	return nil, common.NewError(common.CodeForbidden, "application is not visible to this user", nil)
}

// ListForIdentity returns a student's own applications, every application
// to a recruiter's drives, or everything for an admin.
func (s *ApplicationService) ListForIdentity(ctx context.Context, identity user.Identity) ([]application.Application, error) {
	switch identity.Role {
	case user.RoleAdmin:
		return s.repo.GetAll(ctx)
	case user.RoleStudent:
		return s.repo.ListByStudent(ctx, identity.SubjectID)
	case user.RoleRecruiter:
		drives, err := s.drives.ListByCompany(ctx, identity.SubjectID)
		if err != nil {
			return nil, err
		}
		var items []application.Application
		for _, d := range drives {
			apps, err := s.repo.ListByDrive(ctx, d.ID)
			if err != nil {
				return nil, err
			}
			items = append(items, apps...)
		}
		return items, nil
	default:
		return nil, common.NewError(common.CodeForbidden, "unknown role", nil)
	}
}

func (s *ApplicationService) ListByDrive(ctx context.Context, identity user.Identity, driveID common.UUID) ([]application.Application, error) {
	d, err := s.drives.Get(ctx, driveID)
	if err != nil {
		return nil, err
	}
	if err := authorizeDrive(identity, *d); err != nil {
		return nil, err
	}
	return s.repo.ListByDrive(ctx, driveID)
}

// StatusSummary counts applications by overall status.
func (s *ApplicationService) StatusSummary(ctx context.Context) (map[application.Status]int, error) {
	apps, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	summary := make(map[application.Status]int)
	for _, app := range apps {
		summary[app.Status]++
	}
	return summary, nil
}

func updatedBy(identity user.Identity) string {
	if identity.Name != "" {
		return identity.Name
	}
	return string(identity.Role)
}
