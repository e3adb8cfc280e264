package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"placementcell/internal/common"
	"placementcell/internal/domain/application"
	"placementcell/internal/domain/company"
	"placementcell/internal/domain/drive"
	"placementcell/internal/domain/student"
)

var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}

type StudentRepository struct {
	c collection[student.Student]
}

func NewStudentRepository(db *mongo.Database) *StudentRepository {
	return &StudentRepository{c: collection[student.Student]{coll: db.Collection("students"), entity: "student"}}
}

func (r *StudentRepository) GetAll(ctx context.Context) ([]student.Student, error) {
	return r.c.find(ctx, bson.M{}, bson.D{{Key: "_id", Value: 1}})
}

func (r *StudentRepository) Get(ctx context.Context, id common.UUID) (*student.Student, error) {
	return r.c.findOne(ctx, bson.M{"_id": id})
}

func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*student.Student, error) {
	return r.c.findOne(ctx, emailFilter("email", email))
}

func (r *StudentRepository) Save(ctx context.Context, s student.Student) error {
	return r.c.replace(ctx, s.ID, s)
}

func (r *StudentRepository) Delete(ctx context.Context, id common.UUID) error {
	return r.c.delete(ctx, id)
}

type CompanyRepository struct {
	c collection[company.Company]
}

func NewCompanyRepository(db *mongo.Database) *CompanyRepository {
	return &CompanyRepository{c: collection[company.Company]{coll: db.Collection("companies"), entity: "company"}}
}

func (r *CompanyRepository) GetAll(ctx context.Context) ([]company.Company, error) {
	return r.c.find(ctx, bson.M{}, bson.D{{Key: "_id", Value: 1}})
}

func (r *CompanyRepository) Get(ctx context.Context, id common.UUID) (*company.Company, error) {
	return r.c.findOne(ctx, bson.M{"_id": id})
}

func (r *CompanyRepository) FindByEmail(ctx context.Context, email string) (*company.Company, error) {
	return r.c.findOne(ctx, emailFilter("hr_email", email))
}

func (r *CompanyRepository) Save(ctx context.Context, c company.Company) error {
	return r.c.replace(ctx, c.ID, c)
}

func (r *CompanyRepository) Delete(ctx context.Context, id common.UUID) error {
	return r.c.delete(ctx, id)
}

type DriveRepository struct {
	c collection[drive.Drive]
}

func NewDriveRepository(db *mongo.Database) *DriveRepository {
	return &DriveRepository{c: collection[drive.Drive]{coll: db.Collection("drives"), entity: "drive"}}
}

func (r *DriveRepository) GetAll(ctx context.Context) ([]drive.Drive, error) {
	return r.c.find(ctx, bson.M{}, newestFirst)
}

func (r *DriveRepository) ListByCompany(ctx context.Context, companyID common.UUID) ([]drive.Drive, error) {
	return r.c.find(ctx, bson.M{"company_id": companyID}, newestFirst)
}

func (r *DriveRepository) Get(ctx context.Context, id common.UUID) (*drive.Drive, error) {
	return r.c.findOne(ctx, bson.M{"_id": id})
}

func (r *DriveRepository) Save(ctx context.Context, d drive.Drive) error {
	return r.c.replace(ctx, d.ID, d)
}

func (r *DriveRepository) Delete(ctx context.Context, id common.UUID) error {
	return r.c.delete(ctx, id)
}

type ApplicationRepository struct {
	c collection[application.Application]
}

func NewApplicationRepository(db *mongo.Database) *ApplicationRepository {
	return &ApplicationRepository{c: collection[application.Application]{coll: db.Collection("applications"), entity: "application"}}
}

var appliedNewestFirst = bson.D{{Key: "applied_at", Value: -1}, {Key: "_id", Value: 1}}

func (r *ApplicationRepository) GetAll(ctx context.Context) ([]application.Application, error) {
	return r.c.find(ctx, bson.M{}, appliedNewestFirst)
}

func (r *ApplicationRepository) ListByStudent(ctx context.Context, studentID common.UUID) ([]application.Application, error) {
	return r.c.find(ctx, bson.M{"student_id": studentID}, appliedNewestFirst)
}

func (r *ApplicationRepository) ListByDrive(ctx context.Context, driveID common.UUID) ([]application.Application, error) {
	return r.c.find(ctx, bson.M{"drive_id": driveID}, appliedNewestFirst)
}

func (r *ApplicationRepository) Get(ctx context.Context, id common.UUID) (*application.Application, error) {
	return r.c.findOne(ctx, bson.M{"_id": id})
}

func (r *ApplicationRepository) FindByDriveAndStudent(ctx context.Context, driveID, studentID common.UUID) (*application.Application, error) {
	return r.c.findOne(ctx, bson.M{"drive_id": driveID, "student_id": studentID})
}

func (r *ApplicationRepository) Save(ctx context.Context, app application.Application) error {
	return r.c.replace(ctx, app.ID, app)
}

func (r *ApplicationRepository) Delete(ctx context.Context, id common.UUID) error {
	return r.c.delete(ctx, id)
}
