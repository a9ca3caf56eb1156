package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvitationIsUsable(t *testing.T) {
	now := time.Now()
	usedBy := int64(7)

	fresh := &Invitation{ExpiresAt: now.Add(time.Hour)}
	assert.True(t, fresh.IsUsable(now))

	used := &Invitation{ExpiresAt: now.Add(time.Hour), UsedBy: &usedBy}
	assert.False(t, used.IsUsable(now))

	revoked := &Invitation{ExpiresAt: now.Add(time.Hour), IsRevoked: true}
	assert.False(t, revoked.IsUsable(now))

	expired := &Invitation{ExpiresAt: now.Add(-time.Minute)}
	assert.False(t, expired.IsUsable(now))

	// The expiry instant itself is no longer usable.
	boundary := &Invitation{ExpiresAt: now}
	assert.False(t, boundary.IsUsable(now))
}
