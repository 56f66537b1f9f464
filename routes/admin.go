package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/controllers/order"
	productControllers "github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/controllers/product"
	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/middleware"
)

// SetupAdminRoutes registers "/admin/*" endpoints, restricted to the ADMIN
// role on top of token validation.
func SetupAdminRoutes(r *gin.Engine, deps Deps) {
	admin := r.Group("/admin")
	admin.Use(middleware.ValidateToken(deps.Codec), middleware.RequireAdmin())
	{
		admin.GET("/orders", orderControllers.GetAllOrders(deps.Orders))
		admin.GET("/orders/stats", orderControllers.GetStats(deps.Orders))
		admin.PUT("/orders/:id/status", orderControllers.UpdateStatus(deps.Orders))
		admin.DELETE("/orders/:id", orderControllers.DeleteOrder(deps.Orders))

		admin.POST("/products", productControllers.CreateProduct(deps.DB))
		admin.PUT("/products/:id", productControllers.UpdateProduct(deps.DB))
		admin.DELETE("/products/:id", productControllers.DeleteProduct(deps.DB))

		admin.POST("/categories", productControllers.CreateCategory(deps.DB))
		admin.DELETE("/categories/:id", productControllers.DeleteCategory(deps.DB))
	}
}
