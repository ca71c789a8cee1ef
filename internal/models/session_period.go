package models

import (
	"strings"
	"time"
)

// RetakeSuffix marks a session period as a retake window.
const RetakeSuffix = "_retake"

// SessionPeriod is a named inclusive date window during which exam terms may
// be scheduled. StartDate and EndDate are YYYY-MM-DD strings compared
// lexicographically (see ExamTerm for the contract).
type SessionPeriod struct {
	ID           string    `db:"id" json:"id"`
	Semester     string    `db:"semester" json:"semester"`
	AcademicYear string    `db:"academic_year" json:"academic_year"`
	StartDate    string    `db:"start_date" json:"start_date"`
	EndDate      string    `db:"end_date" json:"end_date"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// IsRetake reports whether the period is a retake window.
func (p SessionPeriod) IsRetake() bool {
	return strings.HasSuffix(p.Semester, RetakeSuffix)
}

// Contains reports inclusive membership of a YYYY-MM-DD date in the window.
func (p SessionPeriod) Contains(date string) bool {
	return p.StartDate <= date && date <= p.EndDate
}

// SessionWindows holds the two windows currently considered open for
// scheduling: the main session and its retake session.
type SessionWindows struct {
	Main    *SessionPeriod `json:"main"`
	Retake  *SessionPeriod `json:"retake"`
	Active  bool           `json:"is_session_active"`
	Message string         `json:"message"`
}

// Contains reports whether the date falls inside either window.
func (w SessionWindows) Contains(date string) bool {
	if w.Main != nil && w.Main.Contains(date) {
		return true
	}
	if w.Retake != nil && w.Retake.Contains(date) {
		return true
	}
	return false
}
