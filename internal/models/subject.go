package models

import "time"

// StudyMode identifies the study track a subject belongs to.
type StudyMode string

const (
	StudyModeStationaryI  StudyMode = "stationary_I"
	StudyModeStationaryII StudyMode = "stationary_II"
	StudyModePartTimeI    StudyMode = "parttime_I"
	StudyModePartTimeII   StudyMode = "parttime_II"
)

// Valid reports whether the study mode is one of the known tracks.
func (m StudyMode) Valid() bool {
	switch m {
	case StudyModeStationaryI, StudyModeStationaryII, StudyModePartTimeI, StudyModePartTimeII:
		return true
	}
	return false
}

// Subject represents an academic course offered to one student cohort.
type Subject struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	FieldOfStudy string    `db:"field_of_study" json:"field_of_study"`
	StudyMode    StudyMode `db:"study_mode" json:"study_mode"`
	Year         int       `db:"year" json:"year"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Cohort returns the student group the subject is taught to.
func (s Subject) Cohort() Cohort {
	return Cohort{FieldOfStudy: s.FieldOfStudy, StudyMode: s.StudyMode, Year: s.Year}
}

// Cohort identifies a group of students sharing one schedule. It is derived
// from the subject, never stored on its own.
type Cohort struct {
	FieldOfStudy string    `json:"field_of_study"`
	StudyMode    StudyMode `json:"study_mode"`
	Year         int       `json:"year"`
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	FieldOfStudy string
	StudyMode    StudyMode
	Year         int
}
