// Package eligibility decides which students may see, apply to, or be
// notified about which placement drives. Everything here is pure.
package eligibility

import (
	"strings"
	"time"

	"placementcell/internal/common"
	"placementcell/internal/domain/company"
	"placementcell/internal/domain/drive"
	"placementcell/internal/domain/student"
)

const deadlineLayout = "2006-01-02"

// IsEligible is the student-facing predicate used to list drives and gate
// applications. Verification and blacklist flags are not consulted here.
func IsEligible(s student.Student, d drive.Drive, c company.Company, now time.Time) bool {
	if !c.IsApproved {
		return false
	}
	if d.Status != drive.StatusOpen {
		return false
	}
	if !meetsAcademicBar(s, d) {
		return false
	}
	return deadlineOpen(d.Deadline, now)
}

// EligibleDrivesForStudent keeps drives that pass IsEligible. Drives whose
// company cannot be resolved are dropped.
func EligibleDrivesForStudent(s student.Student, drives []drive.Drive, companies []company.Company, now time.Time) []drive.Drive {
	byID := make(map[common.UUID]company.Company, len(companies))
	for _, c := range companies {
		byID[c.ID] = c
	}
	out := make([]drive.Drive, 0, len(drives))
	for _, d := range drives {
		c, ok := byID[d.CompanyID]
		if !ok {
			continue
		}
		if IsEligible(s, d, c, now) {
			out = append(out, d)
		}
	}
	return out
}

// EligibleStudentsForDrive selects announcement recipients. Unlike
// IsEligible it requires a verified, non-blacklisted student and ignores
// drive status, deadline and company approval.
func EligibleStudentsForDrive(d drive.Drive, students []student.Student) []student.Student {
	out := make([]student.Student, 0, len(students))
	for _, s := range students {
		if !s.IsVerified || s.IsBlacklisted {
			continue
		}
		if meetsAcademicBar(s, d) {
			out = append(out, s)
		}
	}
	return out
}

func meetsAcademicBar(s student.Student, d drive.Drive) bool {
	return s.CGPA >= d.MinCGPA && s.Backlogs <= d.MaxBacklogs && d.HasBranch(s.Branch)
}

// deadlineOpen compares calendar dates in now's location so the deadline
// day itself still counts. Empty or unparseable deadlines are closed.
func deadlineOpen(deadline string, now time.Time) bool {
	day, ok := ParseDeadline(deadline, now.Location())
	if !ok {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return !day.Before(today)
}

// ParseDeadline accepts YYYY-MM-DD or RFC3339 and returns midnight of that
// calendar day in loc.
func ParseDeadline(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	if parsed, err := time.ParseInLocation(deadlineLayout, value, loc); err == nil {
		return parsed, true
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false
	}
	parsed = parsed.In(loc)
	y, m, d := parsed.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), true
}
