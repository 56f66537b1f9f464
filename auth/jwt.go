package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims carried by an access token.
type Claims struct {
	Username string `json:"sub"`
	Role     string `json:"role,omitempty"`
	UserID   uint   `json:"user_id,omitempty"`
}

// TokenCodec creates and validates HMAC-signed JWTs. Access and refresh
// tokens share the secret but carry independent lifetimes; refresh JWTs are
// not persisted here, that is the session store's job.
type TokenCodec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenCodec(secret string, accessTTL, refreshTTL time.Duration) *TokenCodec {
	return &TokenCodec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (tc *TokenCodec) AccessTTL() time.Duration { return tc.accessTTL }

// Issue signs a short-lived access token for the given identity. extra claims
// are merged in without overriding the registered ones.
func (tc *TokenCodec) Issue(username string, extra map[string]interface{}) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{}
	for k, v := range extra {
		claims[k] = v
	}
	claims["sub"] = username
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(tc.accessTTL).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tc.secret)
}

// IssueRefresh signs a long-lived token for the given identity.
func (tc *TokenCodec) IssueRefresh(username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": username,
		"iat": now.Unix(),
		"exp": now.Add(tc.refreshTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tc.secret)
}

// Verify parses and validates a token. It distinguishes expiry from any other
// failure so callers can log the difference; clients see 401 either way.
func (tc *TokenCodec) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return tc.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	claims := &Claims{}
	if sub, ok := mapClaims["sub"].(string); ok {
		claims.Username = sub
	}
	if role, ok := mapClaims["role"].(string); ok {
		claims.Role = role
	}
	if id, ok := mapClaims["user_id"].(float64); ok {
		claims.UserID = uint(id)
	}
	if claims.Username == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
