package models

import "time"

// RefreshToken is one persisted login session (user x device). The token
// string is an opaque random value; it is not a JWT and is only ever compared
// against the stored row.
type RefreshToken struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Token      string    `gorm:"uniqueIndex;not null;size:500" json:"token"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	ExpiresAt  time.Time `gorm:"not null" json:"expires_at"`
	DeviceInfo string    `json:"device_info"`
	IPAddress  string    `json:"ip_address"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at"`
}

func (t *RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}
