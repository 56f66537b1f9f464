package productControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/models"
	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/web"
)

type ProductInput struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       int             `json:"stock"`
	CategoryID  *uint           `json:"category_id"`
}

// GET /products
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		q := db.Order("created_at DESC")
		if category := c.Query("category_id"); category != "" {
			q = q.Where("category_id = ?", category)
		}
		if err := q.Find(&products).Error; err != nil {
			web.Error(c, http.StatusInternalServerError, "internal_error", "Failed to fetch products")
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GET /products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				web.Error(c, http.StatusNotFound, "not_found", "Product not found")
				return
			}
			web.Error(c, http.StatusInternalServerError, "internal_error", "Failed to fetch product")
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// POST /admin/products
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			web.Error(c, http.StatusBadRequest, "validation_error", "Invalid input: "+err.Error())
			return
		}

		now := time.Now()
		product := models.Product{
			Name:        input.Name,
			Description: input.Description,
			Image:       input.Image,
			Price:       input.Price,
			Stock:       input.Stock,
			CategoryID:  input.CategoryID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := db.Create(&product).Error; err != nil {
			web.Error(c, http.StatusInternalServerError, "internal_error", "Failed to create product")
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// PUT /admin/products/:id
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			web.Error(c, http.StatusNotFound, "not_found", "Product not found")
			return
		}

		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			web.Error(c, http.StatusBadRequest, "validation_error", "Invalid input: "+err.Error())
			return
		}

		product.Name = input.Name
		product.Description = input.Description
		product.Image = input.Image
		product.Price = input.Price
		product.Stock = input.Stock
		product.CategoryID = input.CategoryID
		product.UpdatedAt = time.Now()

		if err := db.Save(&product).Error; err != nil {
			web.Error(c, http.StatusInternalServerError, "internal_error", "Failed to update product")
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// DELETE /admin/products/:id
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Delete(&models.Product{}, "id = ?", c.Param("id"))
		if result.Error != nil {
			web.Error(c, http.StatusInternalServerError, "internal_error", "Failed to delete product")
			return
		}
		if result.RowsAffected == 0 {
			web.Error(c, http.StatusNotFound, "not_found", "Product not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}
