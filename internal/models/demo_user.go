package models

import "time"

// DemoUser is a canned identity used by the demo frontend dropdown. Students
// and starostas carry their cohort; instructors carry their subject.
type DemoUser struct {
	ID           string     `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Role         UserRole   `db:"role" json:"role"`
	FieldOfStudy *string    `db:"field_of_study" json:"field_of_study,omitempty"`
	StudyMode    *StudyMode `db:"study_mode" json:"study_mode,omitempty"`
	Year         *int       `db:"year" json:"year,omitempty"`
	Subject      *string    `db:"subject" json:"subject,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// Pagination carries list paging metadata in response envelopes.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
