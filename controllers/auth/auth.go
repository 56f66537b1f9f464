package authControllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/auth"
	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/middleware"
	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/models"
	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/sessions"
	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/web"
)

type LoginRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	DeviceInfo string `json:"deviceInfo"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=3"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// POST /auth/login
func Login(service *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			web.Error(c, http.StatusBadRequest, "validation_error", "Invalid input: "+err.Error())
			return
		}

		deviceInfo := req.DeviceInfo
		if deviceInfo == "" {
			deviceInfo = deviceFromUserAgent(c)
		}

		resp, err := service.Login(req.Username, req.Password, deviceInfo, clientIP(c))
		if err != nil {
			if errors.Is(err, auth.ErrBadCredentials) {
				web.Error(c, http.StatusUnauthorized, "authentication_error", "Invalid credentials")
				return
			}
			web.Error(c, http.StatusInternalServerError, "internal_error", "Login failed")
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// POST /auth/refresh
func Refresh(service *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			web.Error(c, http.StatusBadRequest, "validation_error", "Invalid input: "+err.Error())
			return
		}

		resp, err := service.Refresh(req.RefreshToken)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrSessionNotFound), errors.Is(err, auth.ErrSessionExpired):
				web.Error(c, http.StatusBadRequest, "authentication_error", "Invalid or expired refresh token")
			default:
				web.Error(c, http.StatusInternalServerError, "internal_error", "Token refresh failed")
			}
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// POST /auth/register
func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			web.Error(c, http.StatusBadRequest, "validation_error", "Invalid input: "+err.Error())
			return
		}

		var count int64
		db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
		if count > 0 {
			web.Error(c, http.StatusBadRequest, "business_rule_violation", "A user with this email already exists")
			return
		}
		db.Model(&models.User{}).Where("username = ?", req.Username).Count(&count)
		if count > 0 {
			web.Error(c, http.StatusBadRequest, "business_rule_violation", "This username is already taken")
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			web.Error(c, http.StatusInternalServerError, "internal_error", "Failed to create user")
			return
		}

		user := models.User{
			Username:  req.Username,
			Email:     req.Email,
			Password:  hash,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
			Role:      models.RoleUser,
		}
		if err := db.Create(&user).Error; err != nil {
			web.Error(c, http.StatusInternalServerError, "internal_error", "Failed to create user")
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

// POST /auth/logout
func Logout(service *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LogoutRequest
		_ = c.ShouldBindJSON(&req) // body is optional

		if err := service.Logout(req.RefreshToken); err != nil {
			web.Error(c, http.StatusInternalServerError, "internal_error", "Logout failed")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Session closed"})
	}
}

// POST /auth/logout-all
func LogoutAll(service *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			web.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}
		if err := service.LogoutAll(userID); err != nil {
			web.Error(c, http.StatusInternalServerError, "internal_error", "Logout failed")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "All sessions closed"})
	}
}

// GET /auth/me
func Me(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			web.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}
		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			web.Error(c, http.StatusNotFound, "not_found", "User not found")
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// GET /auth/sessions
func ListSessions(store *sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			web.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}
		active, err := store.ListActive(userID)
		if err != nil {
			web.Error(c, http.StatusInternalServerError, "internal_error", "Failed to list sessions")
			return
		}
		c.JSON(http.StatusOK, active)
	}
}

func deviceFromUserAgent(c *gin.Context) string {
	ua := c.GetHeader("User-Agent")
	if ua == "" {
		return "Unknown Device"
	}
	if len(ua) > 200 {
		ua = ua[:200]
	}
	return ua
}

func clientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if real := c.GetHeader("X-Real-IP"); real != "" {
		return real
	}
	return c.ClientIP()
}
