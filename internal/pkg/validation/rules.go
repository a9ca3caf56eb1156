// Package validation holds format rules that must match across the API
// surface and the service layer.
package validation

import "regexp"

// Validation rule patterns
var (
	// Invitation code pattern: 8 characters from an alphabet excluding
	// visually ambiguous I, O, 0 and 1
	InvitationCodePattern = `^[A-HJ-NP-Z2-9]{8}$`

	// Academic year pattern, e.g. "2025-2026"
	AcademicYearPattern = `^\d{4}-\d{4}$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	InvitationCode *regexp.Regexp
	AcademicYear   *regexp.Regexp
}{
	InvitationCode: regexp.MustCompile(InvitationCodePattern),
	AcademicYear:   regexp.MustCompile(AcademicYearPattern),
}
