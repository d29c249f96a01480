package domain

import "time"

type ApplicationKind string

const (
	ApplicationKindInitial ApplicationKind = "initial"
	ApplicationKindFull    ApplicationKind = "full"
)

type ApplicationStatus string

const (
	ApplicationStatusNotApplied ApplicationStatus = "NOT_APPLIED"
	ApplicationStatusPending    ApplicationStatus = "PENDING"
	ApplicationStatusApproved   ApplicationStatus = "APPROVED"
	ApplicationStatusDeclined   ApplicationStatus = "DECLINED"
	ApplicationStatusWithdrawn  ApplicationStatus = "WITHDRAWN"
)

// Application is one submitted request in a user's lineage. A lineage only
// ever moves forward: re-application after a decline or withdrawal creates a
// new row, decided rows are never mutated again.
type Application struct {
	ID          int32             `json:"id"`
	UserID      int32             `json:"user_id"`
	Kind        ApplicationKind   `json:"kind"`
	Ticket      string            `json:"ticket"`
	Answers     string            `json:"answers"` // opaque JSON payload
	Status      ApplicationStatus `json:"status"`
	SubmittedOn time.Time         `json:"submitted_on"`
	ReviewedOn  *time.Time        `json:"reviewed_on,omitempty"`
	ReviewerID  *int32            `json:"reviewer_id,omitempty"`
	AdminNotes  string            `json:"admin_notes,omitempty"`
}

// IsDecided reports whether the application has left the PENDING state.
func (a *Application) IsDecided() bool {
	return a.Status != ApplicationStatusPending
}
