package app

import (
	"context"
	"testing"

	"placementcell/internal/common"
	"placementcell/internal/domain/student"
	"placementcell/internal/eligibility"
	"placementcell/internal/security"
)

func TestRegisterStudent(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	s, err := f.studentSvc.Register(ctx, RegisterStudentInput{
		Name: "Asha", Email: "asha@nfsu.test", Password: "secret12", Branch: "CSE", CGPA: 8.2, Year: 3,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if s.IsVerified || s.IsBlacklisted {
		t.Fatalf("new students start unverified and active: %+v", s)
	}
	if !security.CheckPassword("secret12", s.PasswordHash) {
		t.Fatalf("password hash does not verify")
	}
	_, err = f.studentSvc.Register(ctx, RegisterStudentInput{Name: "Asha", Email: "ASHA@nfsu.test", Password: "secret12"})
	if !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	_, err = f.studentSvc.Register(ctx, RegisterStudentInput{Name: "", Email: "bad", Password: "x", CGPA: 11})
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateProfileKeepsAdminFlags(t *testing.T) {
	f := newFixture(t, true)
	f.addStudent(t, "s1", "CSE", 7, 1, true, true)
	cgpa := 8.4
	backlogs := 0
	branch := "IT"
	s, err := f.studentSvc.UpdateProfile(context.Background(), "s1", ProfileUpdate{CGPA: &cgpa, Backlogs: &backlogs, Branch: &branch})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if s.CGPA != 8.4 || s.Backlogs != 0 || s.Branch != "IT" {
		t.Fatalf("fields not applied: %+v", s)
	}
	if !s.IsVerified || !s.IsBlacklisted {
		t.Fatalf("admin flags changed: %+v", s)
	}
	if !s.LastUpdated.Equal(fixedNow) {
		t.Fatalf("expected lastUpdated from clock")
	}
	bad := -1
	if _, err := f.studentSvc.UpdateProfile(context.Background(), "s1", ProfileUpdate{Backlogs: &bad}); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListAppliesFilter(t *testing.T) {
	f := newFixture(t, true)
	f.addStudent(t, "s1", "CSE", 8, 0, true, false)
	f.addStudent(t, "s2", "CSE", 8, 0, false, false)
	items, err := f.studentSvc.List(context.Background(), eligibility.StudentFilter{Verification: eligibility.VerificationUnverified})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].ID != "s2" {
		t.Fatalf("unexpected students: %+v", items)
	}
}

func TestBulkVerifyStopsAtFirstFailure(t *testing.T) {
	f := newFixture(t, true)
	repo := failingStudents{StudentRepository: f.students, failID: "s2"}
	svc := NewStudentService(repo, f.logger)
	for _, id := range []string{"s1", "s2", "s3"} {
		f.addStudent(t, common.UUID(id), "CSE", 8, 0, false, false)
	}
	ctx := context.Background()
	result, err := svc.BulkVerify(ctx, []common.UUID{"s1", "s2", "s3"})
	if !common.Is(err, common.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if result.Processed != 1 || result.Requested != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}
	s1, _ := f.students.Get(ctx, "s1")
	s3, _ := f.students.Get(ctx, "s3")
	if !s1.IsVerified || s3.IsVerified {
		t.Fatalf("expected only s1 verified: s1=%v s3=%v", s1.IsVerified, s3.IsVerified)
	}
}

func TestBulkBlacklistAndDelete(t *testing.T) {
	f := newFixture(t, true)
	f.addStudent(t, "s1", "CSE", 8, 0, true, false)
	f.addStudent(t, "s2", "CSE", 8, 0, true, false)
	ctx := context.Background()
	if _, err := f.studentSvc.BulkBlacklist(ctx, []common.UUID{"s1", "s2"}, true); err != nil {
		t.Fatalf("blacklist: %v", err)
	}
	s2, _ := f.students.Get(ctx, "s2")
	if !s2.IsBlacklisted {
		t.Fatalf("expected s2 blacklisted")
	}
	result, err := f.studentSvc.BulkDelete(ctx, []common.UUID{"s1", "missing", "s2"})
	if !common.Is(err, common.CodeInternal) || result.Processed != 1 {
		t.Fatalf("expected abort after s1, got %v %+v", err, result)
	}
	if _, err := f.students.Get(ctx, "s2"); err != nil {
		t.Fatalf("s2 should survive the aborted run: %v", err)
	}
	if _, err := f.studentSvc.BulkVerify(ctx, nil); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error for empty ids, got %v", err)
	}
}

func TestImportSkipsInvalidAndDuplicateRows(t *testing.T) {
	f := newFixture(t, true)
	f.addStudent(t, "s1", "CSE", 8, 0, true, false)
	rows := []student.Student{
		{Name: "New", Email: "new@nfsu.test", Branch: "IT", IsVerified: true},
		{Name: "Dup", Email: "s1@nfsu.test"},
		{Name: "", Email: "anon@nfsu.test"},
		{Name: "Bad", Email: "not-an-email"},
	}
	result, err := f.studentSvc.Import(context.Background(), rows)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Imported != 1 || len(result.Skipped) != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}
	imported, err := f.students.FindByEmail(context.Background(), "new@nfsu.test")
	if err != nil {
		t.Fatalf("imported row missing: %v", err)
	}
	if imported.IsVerified || imported.ID == "" {
		t.Fatalf("imported students start unverified with an id: %+v", imported)
	}
}
