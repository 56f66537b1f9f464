package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/auth"
	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/cart"
	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/orders"
	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/sessions"
)

// Deps carries everything the route groups need; components are constructed
// in main and injected here.
type Deps struct {
	DB          *gorm.DB
	Codec       *auth.TokenCodec
	AuthService *auth.Service
	Sessions    *sessions.Store
	Cart        *cart.Engine
	Orders      *orders.Ledger
}

// SetupRoutes is the single entry-point that wires up all route groups.
func SetupRoutes(r *gin.Engine, deps Deps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	SetupAuthRoutes(r, deps)
	SetupCartRoutes(r, deps)
	SetupOrderRoutes(r, deps)
	SetupCatalogRoutes(r, deps)
	SetupAdminRoutes(r, deps)
}
