// Package repositories contains the data access layer over PostgreSQL.
// Repositories speak pgx and squirrel; read paths that miss return the
// matching apperrors sentinel so the service layer can errors.Is them.
package repositories

import (
	"github.com/dmoran/orienta/internal/db"
)

// Repositories holds every repository instance
type Repositories struct {
	Profile      *ProfileRepository
	Student      *StudentRepository
	Center       *CenterRepository
	GuardianLink *GuardianLinkRepository
	Plan         *PlanRepository
	Event        *EventRepository
	Resource     *ResourceRepository
	Company      *CompanyRepository
	Invitation   *InvitationRepository
}

// NewRepositories creates all repositories sharing one connection pool
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		Profile:      NewProfileRepository(database),
		Student:      NewStudentRepository(database),
		Center:       NewCenterRepository(database),
		GuardianLink: NewGuardianLinkRepository(database),
		Plan:         NewPlanRepository(database),
		Event:        NewEventRepository(database),
		Resource:     NewResourceRepository(database),
		Company:      NewCompanyRepository(database),
		Invitation:   NewInvitationRepository(database),
	}
}
