package routes

import (
	"github.com/gin-gonic/gin"

	productControllers "github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/controllers/product"
)

// SetupCatalogRoutes registers the public product/category browsing endpoints.
func SetupCatalogRoutes(r *gin.Engine, deps Deps) {
	r.GET("/products", productControllers.GetProducts(deps.DB))
	r.GET("/products/:id", productControllers.GetProductByID(deps.DB))
	r.GET("/categories", productControllers.GetCategories(deps.DB))
}
