package sessions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/models"
)

func newTestStore(t *testing.T, maxSessions int, ttl time.Duration) (*Store, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.RefreshToken{}))
	return NewStore(db, maxSessions, ttl), db
}

func TestCreateReturnsOpaqueToken(t *testing.T) {
	store, _ := newTestStore(t, 5, time.Hour)

	session, err := store.Create(1, "Firefox on Linux", "10.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.True(t, session.IsActive)
	assert.Equal(t, "Firefox on Linux", session.DeviceInfo)
	assert.Equal(t, "10.0.0.1", session.IPAddress)
	assert.True(t, session.ExpiresAt.After(time.Now()))
}

func TestSessionLimitEvictsOldestFirst(t *testing.T) {
	store, _ := newTestStore(t, 5, time.Hour)

	var tokens []string
	for i := 0; i < 6; i++ {
		session, err := store.Create(1, "device", "ip")
		require.NoError(t, err)
		tokens = append(tokens, session.Token)
		time.Sleep(2 * time.Millisecond) // distinct created_at ordering
	}

	active, err := store.ListActive(1)
	require.NoError(t, err)
	require.Len(t, active, 5)

	// The first session is the one evicted; the newest five survive.
	assert.False(t, store.Validate(tokens[0]))
	for _, token := range tokens[1:] {
		assert.True(t, store.Validate(token))
	}
}

func TestLimitOnlyCountsOwnUser(t *testing.T) {
	store, _ := newTestStore(t, 2, time.Hour)

	first, err := store.Create(1, "d", "ip")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = store.Create(2, "d", "ip")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = store.Create(1, "d", "ip")
	require.NoError(t, err)

	// User 1 is at the limit but not over it; nothing evicted yet.
	assert.True(t, store.Validate(first.Token))

	active, err := store.ListActive(2)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestValidateExpiredDeletesRecord(t *testing.T) {
	store, db := newTestStore(t, 5, time.Hour)

	expired := models.RefreshToken{
		Token:     "expired-token",
		UserID:    1,
		ExpiresAt: time.Now().Add(-time.Minute),
		IsActive:  true,
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}
	require.NoError(t, db.Create(&expired).Error)

	assert.False(t, store.Validate("expired-token"))

	_, err := store.FindByToken("expired-token")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestValidateInactiveDeletesRecord(t *testing.T) {
	store, _ := newTestStore(t, 5, time.Hour)

	session, err := store.Create(1, "d", "ip")
	require.NoError(t, err)
	require.NoError(t, store.Revoke(session.Token))

	assert.False(t, store.Validate(session.Token))
	_, err = store.FindByToken(session.Token)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestValidateTouchesLastUsed(t *testing.T) {
	store, _ := newTestStore(t, 5, time.Hour)

	session, err := store.Create(1, "d", "ip")
	require.NoError(t, err)
	before := session.LastUsedAt

	time.Sleep(5 * time.Millisecond)
	require.True(t, store.Validate(session.Token))

	refreshed, err := store.FindByToken(session.Token)
	require.NoError(t, err)
	assert.True(t, refreshed.LastUsedAt.After(before))
}

func TestRevokeIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t, 5, time.Hour)

	session, err := store.Create(1, "d", "ip")
	require.NoError(t, err)

	require.NoError(t, store.Revoke(session.Token))
	require.NoError(t, store.Revoke(session.Token))
	require.NoError(t, store.Revoke("never-existed"))
}

func TestRevokeAll(t *testing.T) {
	store, _ := newTestStore(t, 5, time.Hour)

	for i := 0; i < 3; i++ {
		_, err := store.Create(1, "d", "ip")
		require.NoError(t, err)
	}
	_, err := store.Create(2, "d", "ip")
	require.NoError(t, err)

	n, err := store.RevokeAll(1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	active, err := store.ListActive(1)
	require.NoError(t, err)
	assert.Empty(t, active)

	active, err = store.ListActive(2)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestDeleteExpiredIgnoresActiveFlag(t *testing.T) {
	store, db := newTestStore(t, 5, time.Hour)

	rows := []models.RefreshToken{
		{Token: "a", UserID: 1, ExpiresAt: time.Now().Add(-time.Minute), IsActive: true},
		{Token: "b", UserID: 1, ExpiresAt: time.Now().Add(-time.Minute), IsActive: false},
		{Token: "c", UserID: 1, ExpiresAt: time.Now().Add(time.Hour), IsActive: true},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	n, err := store.DeleteExpired()
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	var remaining int64
	db.Model(&models.RefreshToken{}).Count(&remaining)
	assert.EqualValues(t, 1, remaining)
}
