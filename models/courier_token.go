package models

import "time"

// CourierToken is a cached Shiprocket bearer token. Several valid rows may
// exist at once (two requests refreshing concurrently is a benign race); the
// most recent non-expired row wins.
type CourierToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"not null" json:"token"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Valid reports whether the token can still be used at the given instant.
func (t *CourierToken) Valid(now time.Time) bool {
	return t.ExpiresAt.After(now)
}
