package user

import "placementcell/internal/common"

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleStudent   Role = "student"
	RoleRecruiter Role = "recruiter"
)

// Identity is the authenticated caller of a request. It is passed
// explicitly into services instead of being read from a session store.
type Identity struct {
	SubjectID common.UUID `json:"subject_id"`
	Role      Role        `json:"role"`
	Name      string      `json:"name,omitempty"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

func ParseRole(value string) (Role, bool) {
	switch Role(value) {
	case RoleAdmin, RoleStudent, RoleRecruiter:
		return Role(value), true
	default:
		return "", false
	}
}
