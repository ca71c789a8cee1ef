package models

import "time"

// Audit actions recorded by the service.
const (
	AuditActionTermProposed = "term.proposed"
	AuditActionTermDecided  = "term.decided"
	AuditActionSweep        = "maintenance.sweep"
)

// AuditLog records a domain event for the administrative audit trail. Rows
// are written asynchronously off the request path.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	ActorRole  *string   `db:"actor_role" json:"actor_role,omitempty"`
	ActorName  *string   `db:"actor_name" json:"actor_name,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	Details    []byte    `db:"details" json:"details,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// SweepResult reports per-table deletion counts from the duplicate sweep.
type SweepResult struct {
	Subjects  int `json:"subjects"`
	Exams     int `json:"exams"`
	ExamTerms int `json:"exam_terms"`
	Rooms     int `json:"rooms"`
	DemoUsers int `json:"demo_users"`
}

// Total sums deletions across all entity types.
func (r SweepResult) Total() int {
	return r.Subjects + r.Exams + r.ExamTerms + r.Rooms + r.DemoUsers
}
