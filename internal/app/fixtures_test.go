package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"placementcell/internal/common"
	"placementcell/internal/domain/company"
	"placementcell/internal/domain/drive"
	"placementcell/internal/domain/notification"
	"placementcell/internal/domain/student"
	"placementcell/internal/domain/user"
	"placementcell/internal/repository/memory"
)

var fixedNow = time.Date(2026, time.March, 10, 11, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type fakeLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (l *fakeLogger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *fakeLogger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []notification.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg notification.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fakeDrafter struct {
	body string
	err  error
}

func (d fakeDrafter) Draft(context.Context, string) (string, error) {
	return d.body, d.err
}

// failingStudents fails Save for one id, to exercise bulk aborts.
type failingStudents struct {
	*memory.StudentRepository
	failID common.UUID
}

func (r failingStudents) Save(ctx context.Context, s student.Student) error {
	if s.ID == r.failID {
		return errors.New("disk full")
	}
	return r.StudentRepository.Save(ctx, s)
}

type fixture struct {
	students     *memory.StudentRepository
	companies    *memory.CompanyRepository
	drives       *memory.DriveRepository
	applications *memory.ApplicationRepository
	mailer       *fakeMailer
	logger       *fakeLogger

	studentSvc      *StudentService
	companySvc      *CompanyService
	driveSvc        *DriveService
	applicationSvc  *ApplicationService
	notificationSvc *NotificationService
}

func newFixture(t *testing.T, strict bool) *fixture {
	t.Helper()
	f := &fixture{
		students:     memory.NewStudentRepository(),
		companies:    memory.NewCompanyRepository(),
		drives:       memory.NewDriveRepository(),
		applications: memory.NewApplicationRepository(),
		mailer:       &fakeMailer{},
		logger:       &fakeLogger{},
	}
	f.studentSvc = NewStudentService(f.students, f.logger)
	f.studentSvc.clock = fixedClock
	f.companySvc = NewCompanyService(f.companies, f.logger)
	f.companySvc.clock = fixedClock
	f.notificationSvc = NewNotificationService(f.students, f.mailer, nil, f.logger)
	f.driveSvc = NewDriveService(f.drives, f.companies, f.students, f.notificationSvc, f.logger)
	f.driveSvc.clock = fixedClock
	f.applicationSvc = NewApplicationService(f.applications, f.drives, f.companies, f.students, strict, f.logger)
	f.applicationSvc.clock = fixedClock
	return f
}

func (f *fixture) addCompany(t *testing.T, id common.UUID, approved bool) company.Company {
	t.Helper()
	c := company.Company{ID: id, Name: "Acme " + id.String(), HRName: "Hiring " + id.String(), HREmail: id.String() + "@acme.test", IsApproved: approved, CreatedAt: fixedNow}
	if err := f.companies.Save(context.Background(), c); err != nil {
		t.Fatalf("save company: %v", err)
	}
	return c
}

func (f *fixture) addStudent(t *testing.T, id common.UUID, branch string, cgpa float64, backlogs int, verified, blacklisted bool) student.Student {
	t.Helper()
	s := student.Student{
		ID: id, Name: "Student " + id.String(), Email: id.String() + "@nfsu.test",
		Branch: branch, CGPA: cgpa, Backlogs: backlogs, IsVerified: verified, IsBlacklisted: blacklisted,
	}
	if err := f.students.Save(context.Background(), s); err != nil {
		t.Fatalf("save student: %v", err)
	}
	return s
}

func (f *fixture) addDrive(t *testing.T, id, companyID common.UUID, status drive.Status, deadline string) drive.Drive {
	t.Helper()
	d := drive.Drive{
		ID: id, CompanyID: companyID, Role: "Analyst", MinCGPA: 7, MaxBacklogs: 0,
		EligibleBranches: []string{"CSE", "IT"}, Deadline: deadline, Rounds: []string{"Aptitude", "Technical", "HR"},
		Status: status, CreatedAt: fixedNow,
	}
	if err := f.drives.Save(context.Background(), d); err != nil {
		t.Fatalf("save drive: %v", err)
	}
	return d
}

func studentIdentity(id common.UUID) user.Identity {
	return user.Identity{SubjectID: id, Role: user.RoleStudent, Name: "Student " + id.String()}
}

func recruiterIdentity(companyID common.UUID) user.Identity {
	return user.Identity{SubjectID: companyID, Role: user.RoleRecruiter, Name: "Hiring " + companyID.String()}
}

var adminIdentity = user.Identity{SubjectID: AdminSubjectID, Role: user.RoleAdmin, Name: "Admin"}
