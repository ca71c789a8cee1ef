package models

import "time"

// Exam is an offering of a subject by a named instructor.
type Exam struct {
	ID             string    `db:"id" json:"id"`
	SubjectID      string    `db:"subject_id" json:"subject_id"`
	InstructorName string    `db:"instructor_name" json:"instructor_name"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// ExamDetail is an exam joined with its subject.
type ExamDetail struct {
	Exam
	SubjectName         string    `db:"subject_name" json:"subject_name"`
	SubjectFieldOfStudy string    `db:"subject_field_of_study" json:"subject_field_of_study"`
	SubjectStudyMode    StudyMode `db:"subject_study_mode" json:"subject_study_mode"`
	SubjectYear         int       `db:"subject_year" json:"subject_year"`
}

// Cohort returns the cohort of the exam's subject.
func (e ExamDetail) Cohort() Cohort {
	return Cohort{FieldOfStudy: e.SubjectFieldOfStudy, StudyMode: e.SubjectStudyMode, Year: e.SubjectYear}
}

// ExamFilter captures supported filters for listing exams.
type ExamFilter struct {
	FieldOfStudy   string
	StudyMode      StudyMode
	Year           int
	InstructorName string
}
