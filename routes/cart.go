package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/controllers/cart"
	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/middleware"
)

// SetupCartRoutes registers all "/cart/*" endpoints. Every cart operation is
// scoped to the authenticated identity.
func SetupCartRoutes(r *gin.Engine, deps Deps) {
	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.ValidateToken(deps.Codec))
	{
		cartGroup.GET("", cartControllers.GetCart(deps.Cart))
		cartGroup.GET("/count", cartControllers.GetCount(deps.Cart))
		cartGroup.POST("/items", cartControllers.AddItem(deps.Cart))
		cartGroup.PUT("/items/:product_id", cartControllers.UpdateQuantity(deps.Cart))
		cartGroup.DELETE("/items/:product_id", cartControllers.RemoveItem(deps.Cart))
		cartGroup.DELETE("", cartControllers.Clear(deps.Cart))
		cartGroup.GET("/stock-check", cartControllers.StockCheck(deps.Cart))
		cartGroup.POST("/checkout", cartControllers.Checkout(deps.Cart))
	}
}
