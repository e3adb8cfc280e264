package drive

import (
	"context"
	"time"

	"placementcell/internal/common"
)

type Status string

const (
	StatusOpen   Status = "Open"
	StatusClosed Status = "Closed"
)

// DefaultRounds is the pipeline used when a recruiter posts a drive
// without naming its rounds.
var DefaultRounds = []string{"Aptitude", "Technical", "HR"}

type Drive struct {
	ID               common.UUID `json:"id" bson:"_id"`
	CompanyID        common.UUID `json:"company_id" bson:"company_id"`
	Role             string      `json:"role" bson:"role"`
	CTC              string      `json:"ctc" bson:"ctc"`
	MinCGPA          float64     `json:"min_cgpa" bson:"min_cgpa"`
	MaxBacklogs      int         `json:"max_backlogs" bson:"max_backlogs"`
	EligibleBranches []string    `json:"eligible_branches" bson:"eligible_branches"`
	Deadline         string      `json:"deadline" bson:"deadline"`
	Description      string      `json:"description" bson:"description"`
	Rounds           []string    `json:"rounds" bson:"rounds"`
	Status           Status      `json:"status" bson:"status"`
	CreatedAt        time.Time   `json:"created_at" bson:"created_at"`
}

func (d Drive) HasBranch(branch string) bool {
	for _, item := range d.EligibleBranches {
		if item == branch {
			return true
		}
	}
	return false
}

type Repository interface {
	GetAll(ctx context.Context) ([]Drive, error)
	Get(ctx context.Context, id common.UUID) (*Drive, error)
	ListByCompany(ctx context.Context, companyID common.UUID) ([]Drive, error)
	Save(ctx context.Context, d Drive) error
	Delete(ctx context.Context, id common.UUID) error
}
