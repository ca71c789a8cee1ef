package models

import "time"

// TermStatus tracks the approval lifecycle of an exam term. PROPOSED is the
// initial state; APPROVED and REJECTED are terminal.
type TermStatus string

const (
	TermStatusProposed TermStatus = "PROPOSED"
	TermStatusApproved TermStatus = "APPROVED"
	TermStatusRejected TermStatus = "REJECTED"
)

// Valid reports whether the status is one of the three known states.
func (s TermStatus) Valid() bool {
	switch s {
	case TermStatusProposed, TermStatusApproved, TermStatusRejected:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s TermStatus) Terminal() bool {
	return s == TermStatusApproved || s == TermStatusRejected
}

// UserRole is the capacity under which a term is proposed or decided.
// Administrators may schedule outside the session windows.
type UserRole string

const (
	RoleStudent    UserRole = "STUDENT"
	RoleStarosta   UserRole = "STAROSTA"
	RoleInstructor UserRole = "PROWADZACY"
	RoleAdmin      UserRole = "ADMIN"
)

// Valid reports whether the role is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleStarosta, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// ExamTerm is a scheduling proposal for an exam: a date, a time slot and a
// room, carried through the approval workflow.
//
// ExamDate is a YYYY-MM-DD string and StartTime an HH:MM string. Both are
// compared lexicographically throughout the system; for canonical ISO-8601
// values string order matches chronological order, and the schema stores them
// as text to keep that contract exact.
type ExamTerm struct {
	ID             string     `db:"id" json:"id"`
	ExamID         string     `db:"exam_id" json:"exam_id"`
	ExamDate       string     `db:"exam_date" json:"exam_date"`
	StartTime      string     `db:"start_time" json:"start_time"`
	RoomName       string     `db:"room_name" json:"room_name"`
	ProposedByRole UserRole   `db:"proposed_by_role" json:"proposed_by_role"`
	ProposedByName string     `db:"proposed_by_name" json:"proposed_by_name"`
	ApprovedByRole *UserRole  `db:"approved_by_role" json:"approved_by_role,omitempty"`
	ApprovedByName *string    `db:"approved_by_name" json:"approved_by_name,omitempty"`
	Status         TermStatus `db:"status" json:"status"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// ExamTermDetail is an exam term joined with its exam and subject.
type ExamTermDetail struct {
	ExamTerm
	InstructorName      string    `db:"instructor_name" json:"instructor_name"`
	SubjectName         string    `db:"subject_name" json:"subject_name"`
	SubjectFieldOfStudy string    `db:"subject_field_of_study" json:"subject_field_of_study"`
	SubjectStudyMode    StudyMode `db:"subject_study_mode" json:"subject_study_mode"`
	SubjectYear         int       `db:"subject_year" json:"subject_year"`
}

// ExamTermFilter captures supported filters for listing exam terms.
type ExamTermFilter struct {
	FieldOfStudy string
	StudyMode    StudyMode
	Year         int
	Status       TermStatus
}
