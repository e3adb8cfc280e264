// Package memory keeps whole documents in maps. It is used when no database
// is configured and by tests. Save replaces the stored record; concurrent
// writers to the same id race and the last one wins.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"placementcell/internal/common"
	"placementcell/internal/domain/application"
	"placementcell/internal/domain/company"
	"placementcell/internal/domain/drive"
	"placementcell/internal/domain/student"
)

type StudentRepository struct {
	mu    sync.RWMutex
	items map[common.UUID]student.Student
}

func NewStudentRepository() *StudentRepository {
	return &StudentRepository{items: make(map[common.UUID]student.Student)}
}

func (r *StudentRepository) GetAll(_ context.Context) ([]student.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]student.Student, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, cloneStudent(item))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *StudentRepository) Get(_ context.Context, id common.UUID) (*student.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewNotFoundError("student")
	}
	out := cloneStudent(item)
	return &out, nil
}

func (r *StudentRepository) FindByEmail(_ context.Context, email string) (*student.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if strings.EqualFold(item.Email, email) {
			found := cloneStudent(item)
			return &found, nil
		}
	}
	return nil, common.NewNotFoundError("student")
}

func (r *StudentRepository) Save(_ context.Context, s student.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[s.ID] = cloneStudent(s)
	return nil
}

func (r *StudentRepository) Delete(_ context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func cloneStudent(s student.Student) student.Student {
	out := s
	out.Skills = append([]string(nil), s.Skills...)
	out.Certifications = append([]string(nil), s.Certifications...)
	if s.PlacedCompanyID != nil {
		placed := *s.PlacedCompanyID
		out.PlacedCompanyID = &placed
	}
	if s.CustomFields != nil {
		out.CustomFields = make(map[string]string, len(s.CustomFields))
		for k, v := range s.CustomFields {
			out.CustomFields[k] = v
		}
	}
	return out
}

type CompanyRepository struct {
	mu    sync.RWMutex
	items map[common.UUID]company.Company
}

func NewCompanyRepository() *CompanyRepository {
	return &CompanyRepository{items: make(map[common.UUID]company.Company)}
}

func (r *CompanyRepository) GetAll(_ context.Context) ([]company.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]company.Company, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CompanyRepository) Get(_ context.Context, id common.UUID) (*company.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewNotFoundError("company")
	}
	return &item, nil
}

func (r *CompanyRepository) FindByEmail(_ context.Context, email string) (*company.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if strings.EqualFold(item.HREmail, email) {
			found := item
			return &found, nil
		}
	}
	return nil, common.NewNotFoundError("company")
}

func (r *CompanyRepository) Save(_ context.Context, c company.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[c.ID] = c
	return nil
}

func (r *CompanyRepository) Delete(_ context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

type DriveRepository struct {
	mu    sync.RWMutex
	items map[common.UUID]drive.Drive
}

func NewDriveRepository() *DriveRepository {
	return &DriveRepository{items: make(map[common.UUID]drive.Drive)}
}

func (r *DriveRepository) GetAll(_ context.Context) ([]drive.Drive, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(drive.Drive) bool { return true }), nil
}

func (r *DriveRepository) ListByCompany(_ context.Context, companyID common.UUID) ([]drive.Drive, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(d drive.Drive) bool { return d.CompanyID == companyID }), nil
}

func (r *DriveRepository) sorted(keep func(drive.Drive) bool) []drive.Drive {
	out := make([]drive.Drive, 0, len(r.items))
	for _, item := range r.items {
		if keep(item) {
			out = append(out, cloneDrive(item))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *DriveRepository) Get(_ context.Context, id common.UUID) (*drive.Drive, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewNotFoundError("drive")
	}
	out := cloneDrive(item)
	return &out, nil
}

func (r *DriveRepository) Save(_ context.Context, d drive.Drive) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[d.ID] = cloneDrive(d)
	return nil
}

func (r *DriveRepository) Delete(_ context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func cloneDrive(d drive.Drive) drive.Drive {
	out := d
	out.EligibleBranches = append([]string(nil), d.EligibleBranches...)
	out.Rounds = append([]string(nil), d.Rounds...)
	return out
}

type ApplicationRepository struct {
	mu    sync.RWMutex
	items map[common.UUID]application.Application
}

func NewApplicationRepository() *ApplicationRepository {
	return &ApplicationRepository{items: make(map[common.UUID]application.Application)}
}

func (r *ApplicationRepository) GetAll(_ context.Context) ([]application.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(application.Application) bool { return true }), nil
}

func (r *ApplicationRepository) ListByStudent(_ context.Context, studentID common.UUID) ([]application.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(a application.Application) bool { return a.StudentID == studentID }), nil
}

func (r *ApplicationRepository) ListByDrive(_ context.Context, driveID common.UUID) ([]application.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(a application.Application) bool { return a.DriveID == driveID }), nil
}

func (r *ApplicationRepository) sorted(keep func(application.Application) bool) []application.Application {
	out := make([]application.Application, 0, len(r.items))
	for _, item := range r.items {
		if keep(item) {
			out = append(out, item.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AppliedAt.Equal(out[j].AppliedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].AppliedAt.After(out[j].AppliedAt)
	})
	return out
}

func (r *ApplicationRepository) Get(_ context.Context, id common.UUID) (*application.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewNotFoundError("application")
	}
	out := item.Clone()
	return &out, nil
}

func (r *ApplicationRepository) FindByDriveAndStudent(_ context.Context, driveID, studentID common.UUID) (*application.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if item.DriveID == driveID && item.StudentID == studentID {
			found := item.Clone()
			return &found, nil
		}
	}
	return nil, common.NewNotFoundError("application")
}

// Save rejects a second application for the same drive and student, like the
// unique index in the database stores.
func (r *ApplicationRepository) Save(_ context.Context, app application.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, item := range r.items {
		if id != app.ID && item.DriveID == app.DriveID && item.StudentID == app.StudentID {
			return common.NewError(common.CodeConflict, "already applied", nil)
		}
	}
	r.items[app.ID] = app.Clone()
	return nil
}

func (r *ApplicationRepository) Delete(_ context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}
