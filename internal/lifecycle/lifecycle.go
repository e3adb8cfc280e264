// Package lifecycle moves an application through its drive's interview
// rounds. Functions take and return values and never touch storage.
package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"placementcell/internal/common"
	"placementcell/internal/domain/application"
	"placementcell/internal/domain/drive"
	"placementcell/internal/domain/student"
)

// RoundUpdate is a round decision. Nil optional fields keep the stored value;
// a non-nil empty string clears it.
type RoundUpdate struct {
	RoundIndex      int
	Status          application.RoundState
	ScheduledDate   *string
	Feedback        *string
	OverallFeedback *string
	UpdatedBy       string
}

// CreateApplication snapshots the drive's rounds as Pending entries.
func CreateApplication(id common.UUID, s student.Student, d drive.Drive, now time.Time) (application.Application, error) {
	if s.ID == "" {
		return application.Application{}, common.NewValidationError("invalid application", map[string]string{"student_id": "student_id is required"})
	}
	if d.ID == "" {
		return application.Application{}, common.NewValidationError("invalid application", map[string]string{"drive_id": "drive_id is required"})
	}
	if len(d.Rounds) == 0 {
		return application.Application{}, common.NewValidationError("invalid application", map[string]string{"rounds": "drive has no rounds"})
	}
	rounds := make([]application.RoundStatus, len(d.Rounds))
	for i, name := range d.Rounds {
		stamp := now
		rounds[i] = application.RoundStatus{
			RoundNumber: i,
			RoundName:   name,
			Status:      application.RoundPending,
			UpdatedAt:   &stamp,
		}
	}
	return application.Application{
		ID:            id,
		StudentID:     s.ID,
		DriveID:       d.ID,
		Status:        application.StatusApplied,
		CurrentRound:  0,
		RoundStatuses: rounds,
		AppliedAt:     now,
		LastUpdated:   now,
		Verified:      true,
	}, nil
}

// UpdateRound records a round decision and recomputes the overall status
// and round pointer. Clearing a non-final round moves the pointer to the
// next index whatever that round's own state is.
func UpdateRound(app application.Application, upd RoundUpdate, now time.Time) (application.Application, error) {
	if upd.RoundIndex < 0 || upd.RoundIndex >= len(app.RoundStatuses) {
		return application.Application{}, common.NewValidationError("invalid round", map[string]string{
			"round_index": fmt.Sprintf("round_index must be between 0 and %d", len(app.RoundStatuses)-1),
		})
	}
	if !upd.Status.Known() {
		return application.Application{}, common.NewValidationError("invalid round status", map[string]string{
			"status": "status must be Pending, Scheduled, Cleared, or Rejected",
		})
	}

	next := app.Clone()
	round := next.RoundStatuses[upd.RoundIndex]
	round.Status = upd.Status
	stamp := now
	round.UpdatedAt = &stamp
	if upd.Status.Completes() {
		completed := now
		round.CompletedDate = &completed
	} else {
		round.CompletedDate = nil
	}
	if upd.ScheduledDate != nil {
		round.ScheduledDate = strings.TrimSpace(*upd.ScheduledDate)
	}
	if upd.Feedback != nil {
		round.Feedback = *upd.Feedback
	}
	if upd.UpdatedBy != "" {
		round.UpdatedBy = upd.UpdatedBy
	}
	next.RoundStatuses[upd.RoundIndex] = round

	last := len(next.RoundStatuses) - 1
	switch upd.Status {
	case application.RoundCleared:
		if upd.RoundIndex == last {
			next.Status = application.StatusSelected
		} else {
			next.CurrentRound = upd.RoundIndex + 1
			next.Status = application.StatusShortlisted
		}
	case application.RoundRejected:
		next.Status = application.StatusRejected
	}
	if upd.OverallFeedback != nil {
		next.Feedback = *upd.OverallFeedback
	}
	next.LastUpdated = now
	return next, nil
}

// CheckRoundTransition rejects moves out of a completed round.
func CheckRoundTransition(from, to application.RoundState) error {
	allowed := false
	switch from {
	case application.RoundPending:
		allowed = to.Known()
	case application.RoundScheduled:
		allowed = to == application.RoundScheduled || to == application.RoundCleared || to == application.RoundRejected
	}
	if !allowed {
		return common.NewError(common.CodeValidation, fmt.Sprintf("round cannot move from %s to %s", from, to), nil)
	}
	return nil
}

// CheckApplicationOpen fails for applications that already reached
// Selected or Rejected.
func CheckApplicationOpen(app application.Application) error {
	if app.Status.IsFinal() {
		return common.NewError(common.CodeValidation, "application status is final", nil)
	}
	return nil
}

// OverrideStatus sets the overall status directly, as the admin drive view
// does. Round entries are left as they are.
func OverrideStatus(app application.Application, status application.Status, feedback *string, now time.Time) (application.Application, error) {
	if !status.Known() {
		return application.Application{}, common.NewValidationError("invalid status", map[string]string{
			"status": "status must be Applied, Shortlisted, Technical Round, HR Round, Selected, or Rejected",
		})
	}
	next := app.Clone()
	next.Status = status
	if feedback != nil {
		next.Feedback = *feedback
	}
	next.LastUpdated = now
	return next, nil
}

// Current returns the round the pointer refers to, if any.
func Current(app application.Application) (application.RoundStatus, bool) {
	if app.CurrentRound < 0 || app.CurrentRound >= len(app.RoundStatuses) {
		return application.RoundStatus{}, false
	}
	return app.RoundStatuses[app.CurrentRound], true
}
