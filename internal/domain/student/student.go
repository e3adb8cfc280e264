package student

import (
	"context"
	"time"

	"placementcell/internal/common"
)

type Student struct {
	ID           common.UUID `json:"id" bson:"_id"`
	Name         string      `json:"name" bson:"name"`
	Email        string      `json:"email" bson:"email"`
	PasswordHash string      `json:"-" bson:"password_hash"`
	RollNo       string      `json:"roll_no" bson:"roll_no"`
	Phone        string      `json:"phone,omitempty" bson:"phone,omitempty"`

	Course   string  `json:"course" bson:"course"`
	Branch   string  `json:"branch" bson:"branch"`
	Year     int     `json:"year" bson:"year"`
	CGPA     float64 `json:"cgpa" bson:"cgpa"`
	Backlogs int     `json:"backlogs" bson:"backlogs"`

	Skills         []string `json:"skills" bson:"skills"`
	Certifications []string `json:"certifications" bson:"certifications"`
	ResumeURL      string   `json:"resume_url,omitempty" bson:"resume_url,omitempty"`

	IsVerified      bool         `json:"is_verified" bson:"is_verified"`
	IsBlacklisted   bool         `json:"is_blacklisted" bson:"is_blacklisted"`
	PlacedCompanyID *common.UUID `json:"placed_company_id,omitempty" bson:"placed_company_id,omitempty"`

	// CustomFields holds columns from imports that have no typed field.
	CustomFields map[string]string `json:"custom_fields,omitempty" bson:"custom_fields,omitempty"`
	LastUpdated  time.Time         `json:"last_updated" bson:"last_updated"`
}

// Repository stores whole student documents. Save overwrites the stored
// record; there is no version check.
type Repository interface {
	GetAll(ctx context.Context) ([]Student, error)
	Get(ctx context.Context, id common.UUID) (*Student, error)
	FindByEmail(ctx context.Context, email string) (*Student, error)
	Save(ctx context.Context, s Student) error
	Delete(ctx context.Context, id common.UUID) error
}
