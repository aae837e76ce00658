package models

import "strings"

// Role is the reference-table representation. Older records carry the role
// name inline on the user row instead; both resolve to a CanonicalRole.
type Role struct {
	BaseModel
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// CanonicalRole is the uppercase role name authorization decisions run on.
type CanonicalRole string

const (
	RoleUser  CanonicalRole = "USER"
	RoleAdmin CanonicalRole = "ADMIN"
)

// CanonicalizeRole upper-cases a raw role name and reports whether it is one
// of the recognized roles.
func CanonicalizeRole(name string) (CanonicalRole, bool) {
	switch CanonicalRole(strings.ToUpper(name)) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}
