package domain

import "time"

// PendingChallenge is the single live one-time-code record for a user who has
// passed the primary credential check but not yet completed the second factor.
// Issuing a new challenge for the same user replaces the prior one.
type PendingChallenge struct {
	UserID    string // key: at most one live challenge per user
	Email     string // denormalized for code delivery
	CodeHash  string // SHA-256 fingerprint of the 6-digit code
	Attempts  int    // failed verification count
	IssuedAt  time.Time
	ExpiresAt time.Time
}
