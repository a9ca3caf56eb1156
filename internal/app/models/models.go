package models

// RoleType defines the profile role type
type RoleType string

const (
	RoleStudent RoleType = "student"
	RoleFamily  RoleType = "family"
	RoleTutor   RoleType = "tutor"
	RoleCompany RoleType = "company"
	RoleAdmin   RoleType = "admin"
)

// Valid reports whether the role is one of the known roles.
func (r RoleType) Valid() bool {
	switch r {
	case RoleStudent, RoleFamily, RoleTutor, RoleCompany, RoleAdmin:
		return true
	}
	return false
}
