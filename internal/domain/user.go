package domain

import "time"

type MembershipStage string

const (
	MembershipStageApplicant MembershipStage = "APPLICANT"
	MembershipStagePreMember MembershipStage = "PRE_MEMBER"
	MembershipStageMember    MembershipStage = "MEMBER"
)

type FullMembershipStatus string

const (
	FullMembershipNotApplied FullMembershipStatus = "NOT_APPLIED"
	FullMembershipPending    FullMembershipStatus = "PENDING"
	FullMembershipApproved   FullMembershipStatus = "APPROVED"
	FullMembershipDeclined   FullMembershipStatus = "DECLINED"
)

// User carries the denormalized status mirrors alongside identity. The
// application tables stay the source of truth; mirror fields are written in
// the same transaction as the application row, and the consistency checker
// audits them for drift.
type User struct {
	ID       int32  `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	IsMember bool   `json:"is_member"`

	MembershipStage MembershipStage `json:"membership_stage"`

	InitialApplicationStatus ApplicationStatus `json:"initial_application_status"`
	InitialAppliedOn         *time.Time        `json:"initial_applied_on,omitempty"`

	FullMembershipStatus     FullMembershipStatus `json:"full_membership_status"`
	FullMembershipTicket     string               `json:"full_membership_ticket,omitempty"`
	FullMembershipAppliedOn  *time.Time           `json:"full_membership_applied_on,omitempty"`
	FullMembershipReviewedOn *time.Time           `json:"full_membership_reviewed_on,omitempty"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}
