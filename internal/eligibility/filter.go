package eligibility

import (
	"strings"

	"placementcell/internal/domain/student"
)

type VerificationFilter string

const (
	VerificationAll        VerificationFilter = "all"
	VerificationVerified   VerificationFilter = "verified"
	VerificationUnverified VerificationFilter = "unverified"
)

type BlacklistFilter string

const (
	BlacklistAll         BlacklistFilter = "all"
	BlacklistActive      BlacklistFilter = "active"
	BlacklistBlacklisted BlacklistFilter = "blacklisted"
)

// StudentFilter backs the admin student search. Nil bounds and empty sets
// match everything.
type StudentFilter struct {
	Search       string
	MinCGPA      *float64
	MaxCGPA      *float64
	MinBacklogs  *int
	MaxBacklogs  *int
	Branches     []string
	Years        []int
	Verification VerificationFilter
	Blacklist    BlacklistFilter
}

func FilterStudents(students []student.Student, f StudentFilter) []student.Student {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]student.Student, 0, len(students))
	for _, s := range students {
		if search != "" && !strings.Contains(strings.ToLower(s.Name), search) && !strings.Contains(strings.ToLower(s.RollNo), search) {
			continue
		}
		if f.MinCGPA != nil && s.CGPA < *f.MinCGPA {
			continue
		}
		if f.MaxCGPA != nil && s.CGPA > *f.MaxCGPA {
			continue
		}
		if f.MinBacklogs != nil && s.Backlogs < *f.MinBacklogs {
			continue
		}
		if f.MaxBacklogs != nil && s.Backlogs > *f.MaxBacklogs {
			continue
		}
		if len(f.Branches) > 0 && !containsString(f.Branches, s.Branch) {
			continue
		}
		if len(f.Years) > 0 && !containsInt(f.Years, s.Year) {
			continue
		}
		switch f.Verification {
		case VerificationVerified:
			if !s.IsVerified {
				continue
			}
		case VerificationUnverified:
			if s.IsVerified {
				continue
			}
		}
		switch f.Blacklist {
		case BlacklistActive:
			if s.IsBlacklisted {
				continue
			}
		case BlacklistBlacklisted:
			if !s.IsBlacklisted {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

func containsString(items []string, value string) bool {
	for _, item := range items {
		if item == value {
			return true
		}
	}
	return false
}

func containsInt(items []int, value int) bool {
	for _, item := range items {
		if item == value {
			return true
		}
	}
	return false
}
