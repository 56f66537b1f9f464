package sessions

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/models"
)

// Store persists refresh-token session records and enforces the per-user
// concurrent-session limit. Eviction is FIFO by creation time, not LRU.
type Store struct {
	db          *gorm.DB
	maxSessions int
	ttl         time.Duration
}

func NewStore(db *gorm.DB, maxSessions int, ttl time.Duration) *Store {
	return &Store{db: db, maxSessions: maxSessions, ttl: ttl}
}

// Create registers a new session for the user. Expired rows for the user are
// removed first, then the oldest active sessions are deactivated until the
// count is back under the limit.
func (s *Store) Create(userID uint, deviceInfo, ipAddress string) (*models.RefreshToken, error) {
	var token *models.RefreshToken
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND expires_at < ?", userID, time.Now()).
			Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}

		if err := s.limitActiveSessions(tx, userID); err != nil {
			return err
		}

		now := time.Now()
		token = &models.RefreshToken{
			Token:      uuid.NewString(),
			UserID:     userID,
			ExpiresAt:  now.Add(s.ttl),
			DeviceInfo: deviceInfo,
			IPAddress:  ipAddress,
			IsActive:   true,
			CreatedAt:  now,
			LastUsedAt: now,
		}
		return tx.Create(token).Error
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}

// limitActiveSessions deactivates the oldest active sessions so that after a
// new one is created the user is at most at maxSessions.
func (s *Store) limitActiveSessions(tx *gorm.DB, userID uint) error {
	var active []models.RefreshToken
	if err := tx.Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at ASC").
		Find(&active).Error; err != nil {
		return err
	}
	if len(active) < s.maxSessions {
		return nil
	}

	evict := len(active) - s.maxSessions + 1
	for i := 0; i < evict; i++ {
		if err := tx.Model(&models.RefreshToken{}).
			Where("id = ?", active[i].ID).
			Update("is_active", false).Error; err != nil {
			return err
		}
	}
	log.Printf("sessions: evicted %d oldest session(s) for user %d (limit %d)", evict, userID, s.maxSessions)
	return nil
}

// FindByToken returns the session record for the opaque token string.
func (s *Store) FindByToken(token string) (*models.RefreshToken, error) {
	var record models.RefreshToken
	if err := s.db.Where("token = ?", token).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// Validate reports whether the token belongs to a live session. Inactive or
// expired records are deleted on sight (lazy cleanup) and never surface an
// error to the caller. A valid session gets its last_used_at touched.
func (s *Store) Validate(token string) bool {
	record, err := s.FindByToken(token)
	if err != nil {
		return false
	}

	if record.IsExpired() || !record.IsActive {
		if !record.IsActive {
			log.Printf("sessions: rejected inactive refresh token for user %d", record.UserID)
		} else {
			log.Printf("sessions: rejected expired refresh token for user %d", record.UserID)
		}
		s.db.Delete(record)
		return false
	}

	s.db.Model(record).Update("last_used_at", time.Now())
	return true
}

// Revoke deactivates one session. Revoking an already-inactive or unknown
// token is a no-op.
func (s *Store) Revoke(token string) error {
	return s.db.Model(&models.RefreshToken{}).
		Where("token = ?", token).
		Update("is_active", false).Error
}

// RevokeAll deactivates every session of the user.
func (s *Store) RevokeAll(userID uint) (int64, error) {
	result := s.db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}

// ListActive returns the user's live sessions, oldest first.
func (s *Store) ListActive(userID uint) ([]models.RefreshToken, error) {
	var active []models.RefreshToken
	err := s.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at ASC").
		Find(&active).Error
	return active, err
}

// DeleteExpired removes every row past expiry regardless of the active flag.
func (s *Store) DeleteExpired() (int64, error) {
	result := s.db.Where("expires_at < ?", time.Now()).Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}

// StartSweeper runs DeleteExpired on the given interval until ctx is done.
// It runs on its own goroutine and never blocks request serving.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := s.DeleteExpired(); err != nil {
					log.Printf("sessions: sweep failed: %v", err)
				} else if n > 0 {
					log.Printf("sessions: sweep removed %d expired session(s)", n)
				}
			}
		}
	}()
}
