package company

import (
	"context"
	"time"

	"placementcell/internal/common"
)

type Company struct {
	ID           common.UUID `json:"id" bson:"_id"`
	Name         string      `json:"name" bson:"name"`
	HRName       string      `json:"hr_name" bson:"hr_name"`
	HREmail      string      `json:"hr_email" bson:"hr_email"`
	PasswordHash string      `json:"-" bson:"password_hash"`
	IsApproved   bool        `json:"is_approved" bson:"is_approved"`
	Description  string      `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt    time.Time   `json:"created_at" bson:"created_at"`
}

type Repository interface {
	GetAll(ctx context.Context) ([]Company, error)
	Get(ctx context.Context, id common.UUID) (*Company, error)
	FindByEmail(ctx context.Context, email string) (*Company, error)
	Save(ctx context.Context, c Company) error
	Delete(ctx context.Context, id common.UUID) error
}
