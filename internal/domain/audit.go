package domain

import "time"

// Audit actions recorded by the membership core.
const (
	AuditActionSubmitApplication   = "SUBMIT_APPLICATION"
	AuditActionAmendApplication    = "AMEND_APPLICATION"
	AuditActionWithdrawApplication = "WITHDRAW_APPLICATION"
	AuditActionReviewApplication   = "REVIEW_APPLICATION"
)

// AuditLogEntry is an append-only record of a state-changing action.
// Entries are never updated or deleted.
type AuditLogEntry struct {
	ID          int64     `json:"id"`
	ActorID     int32     `json:"actor_id"`
	Action      string    `json:"action"`
	SubjectType string    `json:"subject_type"`
	SubjectID   int32     `json:"subject_id"`
	Detail      string    `json:"detail"` // structured JSON detail
	CreatedOn   time.Time `json:"created_on"`
}
