package application

import (
	"context"
	"time"

	"placementcell/internal/common"
)

type Status string

const (
	StatusApplied     Status = "Applied"
	StatusShortlisted Status = "Shortlisted"
	StatusSelected    Status = "Selected"
	StatusRejected    Status = "Rejected"

	// Legacy values only reachable through an admin override.
	StatusTechnicalRound Status = "Technical Round"
	StatusHRRound        Status = "HR Round"
)

func (s Status) IsFinal() bool {
	return s == StatusSelected || s == StatusRejected
}

func (s Status) Known() bool {
	switch s {
	case StatusApplied, StatusShortlisted, StatusSelected, StatusRejected, StatusTechnicalRound, StatusHRRound:
		return true
	default:
		return false
	}
}

type RoundState string

const (
	RoundPending   RoundState = "Pending"
	RoundScheduled RoundState = "Scheduled"
	RoundCleared   RoundState = "Cleared"
	RoundRejected  RoundState = "Rejected"
)

func (s RoundState) Known() bool {
	switch s {
	case RoundPending, RoundScheduled, RoundCleared, RoundRejected:
		return true
	default:
		return false
	}
}

// Completes reports whether reaching this state stamps completedDate.
func (s RoundState) Completes() bool {
	return s == RoundCleared || s == RoundRejected
}

type RoundStatus struct {
	RoundNumber   int        `json:"round_number" bson:"round_number"`
	RoundName     string     `json:"round_name" bson:"round_name"`
	Status        RoundState `json:"status" bson:"status"`
	ScheduledDate string     `json:"scheduled_date,omitempty" bson:"scheduled_date,omitempty"`
	CompletedDate *time.Time `json:"completed_date,omitempty" bson:"completed_date,omitempty"`
	Feedback      string     `json:"feedback,omitempty" bson:"feedback,omitempty"`
	UpdatedBy     string     `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

type Application struct {
	ID            common.UUID   `json:"id" bson:"_id"`
	StudentID     common.UUID   `json:"student_id" bson:"student_id"`
	DriveID       common.UUID   `json:"drive_id" bson:"drive_id"`
	Status        Status        `json:"status" bson:"status"`
	CurrentRound  int           `json:"current_round" bson:"current_round"`
	RoundStatuses []RoundStatus `json:"round_statuses" bson:"round_statuses"`
	AppliedAt     time.Time     `json:"applied_at" bson:"applied_at"`
	LastUpdated   time.Time     `json:"last_updated" bson:"last_updated"`
	Verified      bool          `json:"verified" bson:"verified"`
	Feedback      string        `json:"feedback,omitempty" bson:"feedback,omitempty"`
}

// Clone returns a copy that shares no slices or pointers with a.
func (a Application) Clone() Application {
	out := a
	if a.RoundStatuses != nil {
		out.RoundStatuses = make([]RoundStatus, len(a.RoundStatuses))
		for i, round := range a.RoundStatuses {
			if round.CompletedDate != nil {
				completed := *round.CompletedDate
				round.CompletedDate = &completed
			}
			if round.UpdatedAt != nil {
				updated := *round.UpdatedAt
				round.UpdatedAt = &updated
			}
			out.RoundStatuses[i] = round
		}
	}
	return out
}

type Repository interface {
	GetAll(ctx context.Context) ([]Application, error)
	Get(ctx context.Context, id common.UUID) (*Application, error)
	ListByStudent(ctx context.Context, studentID common.UUID) ([]Application, error)
	ListByDrive(ctx context.Context, driveID common.UUID) ([]Application, error)
	FindByDriveAndStudent(ctx context.Context, driveID, studentID common.UUID) (*Application, error)
	Save(ctx context.Context, app Application) error
	Delete(ctx context.Context, id common.UUID) error
}
