package routes

import (
	"github.com/gin-gonic/gin"

	authControllers "github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/controllers/auth"
	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/middleware"
)

// SetupAuthRoutes registers all "/auth/*" endpoints. Login, register and
// refresh are public; the rest require a valid access token.
func SetupAuthRoutes(r *gin.Engine, deps Deps) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", authControllers.Login(deps.AuthService))
		authGroup.POST("/register", authControllers.Register(deps.DB))
		authGroup.POST("/refresh", authControllers.Refresh(deps.AuthService))
	}

	protected := r.Group("/auth")
	protected.Use(middleware.ValidateToken(deps.Codec))
	{
		protected.POST("/logout", authControllers.Logout(deps.AuthService))
		protected.POST("/logout-all", authControllers.LogoutAll(deps.AuthService))
		protected.GET("/me", authControllers.Me(deps.DB))
		protected.GET("/sessions", authControllers.ListSessions(deps.Sessions))
	}
}
