package memory

import (
	"context"
	"testing"
	"time"

	"placementcell/internal/common"
	"placementcell/internal/domain/application"
	"placementcell/internal/domain/drive"
	"placementcell/internal/domain/notice"
	"placementcell/internal/domain/student"
)

func TestStudentSaveOverwritesWholeDocument(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository()
	if err := repo.Save(ctx, student.Student{ID: "s1", Name: "Asha", Email: "asha@nfsu.ac.in", Skills: []string{"go"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Save(ctx, student.Student{ID: "s1", Name: "Asha R"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Email != "" || len(got.Skills) != 0 || got.Name != "Asha R" {
		t.Fatalf("expected full overwrite, got %+v", got)
	}
	if _, err := repo.FindByEmail(ctx, "asha@nfsu.ac.in"); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found after overwrite, got %v", err)
	}
}

func TestStudentRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository()
	_ = repo.Save(ctx, student.Student{ID: "s1", Skills: []string{"go"}})
	got, _ := repo.Get(ctx, "s1")
	got.Skills[0] = "rust"
	again, _ := repo.Get(ctx, "s1")
	if again.Skills[0] != "go" {
		t.Fatalf("stored record was mutated through a returned copy")
	}
}

func TestApplicationLookups(t *testing.T) {
	ctx := context.Background()
	repo := NewApplicationRepository()
	now := time.Now()
	apps := []application.Application{
		{ID: "a1", StudentID: "s1", DriveID: "d1", AppliedAt: now.Add(-time.Hour), RoundStatuses: []application.RoundStatus{{RoundName: "HR"}}},
		{ID: "a2", StudentID: "s1", DriveID: "d2", AppliedAt: now},
		{ID: "a3", StudentID: "s2", DriveID: "d1", AppliedAt: now},
	}
	for _, app := range apps {
		if err := repo.Save(ctx, app); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	byStudent, _ := repo.ListByStudent(ctx, "s1")
	if len(byStudent) != 2 || byStudent[0].ID != "a2" {
		t.Fatalf("unexpected student list: %+v", byStudent)
	}
	byDrive, _ := repo.ListByDrive(ctx, "d1")
	if len(byDrive) != 2 {
		t.Fatalf("unexpected drive list: %+v", byDrive)
	}
	found, err := repo.FindByDriveAndStudent(ctx, "d1", "s2")
	if err != nil || found.ID != "a3" {
		t.Fatalf("find: %v %+v", err, found)
	}
	if err := repo.Delete(ctx, "a1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, "a1"); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDrivesByCompanyNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewDriveRepository()
	now := time.Now()
	_ = repo.Save(ctx, drive.Drive{ID: "d1", CompanyID: "c1", CreatedAt: now.Add(-time.Hour)})
	_ = repo.Save(ctx, drive.Drive{ID: "d2", CompanyID: "c1", CreatedAt: now})
	_ = repo.Save(ctx, drive.Drive{ID: "d3", CompanyID: "c2", CreatedAt: now})
	items, _ := repo.ListByCompany(ctx, "c1")
	if len(items) != 2 || items[0].ID != "d2" {
		t.Fatalf("unexpected drives: %+v", items)
	}
}

func TestApplicationSaveRejectsSecondPairing(t *testing.T) {
	ctx := context.Background()
	repo := NewApplicationRepository()
	first := application.Application{ID: "a1", StudentID: "s1", DriveID: "d1", Status: application.StatusApplied}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	err := repo.Save(ctx, application.Application{ID: "a2", StudentID: "s1", DriveID: "d1"})
	if !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	first.Status = application.StatusShortlisted
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("overwrite of the same id: %v", err)
	}
	all, _ := repo.GetAll(ctx)
	if len(all) != 1 || all[0].Status != application.StatusShortlisted {
		t.Fatalf("unexpected applications: %+v", all)
	}
}

func TestNoticesNewestFirstEventsByDate(t *testing.T) {
	ctx := context.Background()
	notices := NewNoticeRepository()
	now := time.Now()
	_ = notices.Save(ctx, notice.Notice{ID: "n1", PostedAt: now.Add(-time.Hour)})
	_ = notices.Save(ctx, notice.Notice{ID: "n2", PostedAt: now})
	list, _ := notices.GetAll(ctx)
	if len(list) != 2 || list[0].ID != "n2" {
		t.Fatalf("unexpected notice order: %+v", list)
	}

	events := NewEventRepository()
	_ = events.Save(ctx, notice.Event{ID: "e1", Date: "2026-12-01"})
	_ = events.Save(ctx, notice.Event{ID: "e2", Date: "2026-10-05"})
	byDate, _ := events.GetAll(ctx)
	if len(byDate) != 2 || byDate[0].ID != "e2" {
		t.Fatalf("unexpected event order: %+v", byDate)
	}
	if err := events.Delete(ctx, "e2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := events.Get(ctx, "e2"); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
