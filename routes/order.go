package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/controllers/order"
	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/middleware"
)

// SetupOrderRoutes registers the user-facing "/orders/*" endpoints.
func SetupOrderRoutes(r *gin.Engine, deps Deps) {
	orderGroup := r.Group("/orders")
	orderGroup.Use(middleware.ValidateToken(deps.Codec))
	{
		orderGroup.GET("", orderControllers.GetMyOrders(deps.Orders))
		orderGroup.GET("/:id", orderControllers.GetOrder(deps.Orders))
	}
}
