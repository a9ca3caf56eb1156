package models

import "time"

// Student defines the academic record attached to a student profile,
// based on the 'students' table.
type Student struct {
	ID            int64     `json:"id" db:"id"`
	ProfileID     int64     `json:"profileId" db:"profile_id"`
	CenterID      int64     `json:"centerId" db:"center_id"`
	TutorID       *int64    `json:"tutorId,omitempty" db:"tutor_id"`
	CourseYear    *string   `json:"courseYear,omitempty" db:"course_year"`
	GroupName     *string   `json:"groupName,omitempty" db:"group_name"`
	AcademicYear  *string   `json:"academicYear,omitempty" db:"academic_year"`
	Interests     []string  `json:"interests" db:"interests"`
	PreferredPath *string   `json:"preferredPath,omitempty" db:"preferred_path"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`

	// Relations
	Profile *Profile `json:"profile,omitempty" db:"-"`
	Tutor   *Profile `json:"tutor,omitempty" db:"-"`
}
