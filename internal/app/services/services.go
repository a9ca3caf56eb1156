// Package services contains the business logic layer.
//
// Services defined in this package:
// - AuthService: registration (invitation-bound and company), login, profiles
// - GuardianLinkService: guardian-student consent links and tutor decisions
// - PlanService: guidance plans, items, tasks and progress derivation
// - EventService: event lifecycle, registration, capacity and waitlist
// - ResourceService: orientation resources and audience filtering
// - CompanyService: company approval lifecycle
// - InvitationService: invitation code generation and redemption
//
// Each service declares the narrow store interfaces it depends on; the
// concrete repositories satisfy them, and tests substitute in-memory fakes.
package services
