package auth

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/models"
	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/sessions"
)

var (
	ErrBadCredentials  = errors.New("invalid credentials")
	ErrSessionNotFound = errors.New("refresh token not found")
	ErrSessionExpired  = errors.New("refresh token expired or inactive")
)

// AuthResponse is the wire shape returned by login and refresh.
type AuthResponse struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	TokenType    string   `json:"tokenType"`
	ExpiresIn    int64    `json:"expiresIn"` // seconds
	User         UserInfo `json:"user"`
}

type UserInfo struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// Service coordinates credential verification, token issuance, refresh and
// logout. All collaborators are injected at construction time.
type Service struct {
	db     *gorm.DB
	codec  *TokenCodec
	store  *sessions.Store
	rotate bool // rotate refresh tokens on use
}

func NewService(db *gorm.DB, codec *TokenCodec, store *sessions.Store, rotate bool) *Service {
	return &Service{db: db, codec: codec, store: store, rotate: rotate}
}

// Login verifies the credentials, issues an access token and opens a session.
func (s *Service) Login(username, password, deviceInfo, ipAddress string) (*AuthResponse, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}

	if !CheckPassword(user.Password, password) {
		log.Printf("auth: failed login attempt for user %q", username)
		return nil, ErrBadCredentials
	}

	accessToken, err := s.codec.Issue(user.Username, map[string]interface{}{
		"user_id": user.ID,
		"role":    string(user.Role),
	})
	if err != nil {
		return nil, err
	}

	session, err := s.store.Create(user.ID, deviceInfo, ipAddress)
	if err != nil {
		return nil, err
	}

	log.Printf("auth: user %q authenticated", username)
	return s.response(accessToken, session.Token, &user), nil
}

// Refresh exchanges a valid refresh token for a new access token. The same
// refresh token is returned unless rotation is enabled.
func (s *Service) Refresh(refreshToken string) (*AuthResponse, error) {
	record, err := s.store.FindByToken(refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if !s.store.Validate(record.Token) {
		return nil, ErrSessionExpired
	}

	var user models.User
	if err := s.db.First(&user, record.UserID).Error; err != nil {
		return nil, err
	}

	accessToken, err := s.codec.Issue(user.Username, map[string]interface{}{
		"user_id": user.ID,
		"role":    string(user.Role),
	})
	if err != nil {
		return nil, err
	}

	outToken := record.Token
	if s.rotate {
		if err := s.store.Revoke(record.Token); err != nil {
			return nil, err
		}
		rotated, err := s.store.Create(user.ID, record.DeviceInfo, record.IPAddress)
		if err != nil {
			return nil, err
		}
		outToken = rotated.Token
	}

	return s.response(accessToken, outToken, &user), nil
}

// Logout revokes one session. Idempotent: an unknown or already-revoked token
// is a no-op.
func (s *Service) Logout(refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.store.Revoke(refreshToken)
}

// LogoutAll revokes every session of the user.
func (s *Service) LogoutAll(userID uint) error {
	n, err := s.store.RevokeAll(userID)
	if err != nil {
		return err
	}
	log.Printf("auth: revoked %d session(s) for user %d", n, userID)
	return nil
}

func (s *Service) response(accessToken, refreshToken string, user *models.User) *AuthResponse {
	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.codec.AccessTTL().Seconds()),
		User: UserInfo{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Role:      string(user.Role),
		},
	}
}
