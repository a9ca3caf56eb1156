package models

import "time"

// Invitation defines a registration invitation code based on the
// 'invitations' table. Codes are single use and expire.
type Invitation struct {
	ID         int64      `json:"id" db:"id"`
	Code       string     `json:"code" db:"code"`
	CenterID   int64      `json:"centerId" db:"center_id"`
	Role       RoleType   `json:"role" db:"role"`
	Email      *string    `json:"email,omitempty" db:"email"`
	CreatedBy  int64      `json:"createdBy" db:"created_by"`
	UsedBy     *int64     `json:"usedBy,omitempty" db:"used_by"`
	UsedAt     *time.Time `json:"usedAt,omitempty" db:"used_at"`
	ExpiresAt  time.Time  `json:"expiresAt" db:"expires_at"`
	IsRevoked  bool       `json:"isRevoked" db:"is_revoked"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
}

// IsUsable reports whether the invitation can still be redeemed at t.
func (i *Invitation) IsUsable(t time.Time) bool {
	return i.UsedBy == nil && !i.IsRevoked && t.Before(i.ExpiresAt)
}
