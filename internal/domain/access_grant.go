package domain

import "time"

// AccessGrant marks a user's entry into full-membership privileges. It is
// created once on first approval and tracks engagement only; membership
// status is never derived from it.
type AccessGrant struct {
	UserID          int32     `json:"user_id"`
	FirstAccessedOn time.Time `json:"first_accessed_on"`
	AccessCount     int32     `json:"access_count"`
}
