package models

import "time"

// PasswordReset represents a single-use password reset token. Only the SHA-256
// hash of the token is stored; the plaintext appears once in the reset email.
type PasswordReset struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	TokenHash string     `json:"-"`
	ExpiresAt time.Time  `json:"expiresAt"`
	UsedAt    *time.Time `json:"usedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Usable reports whether the token can still redeem a password change
func (p *PasswordReset) Usable(now time.Time) bool {
	return p.UsedAt == nil && now.Before(p.ExpiresAt)
}
