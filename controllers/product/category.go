package productControllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/models"
	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/web"
)

type CategoryInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// GET /categories
func GetCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Preload("Products").Find(&categories).Error; err != nil {
			web.Error(c, http.StatusInternalServerError, "internal_error", "Failed to fetch categories")
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// POST /admin/categories
func CreateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			web.Error(c, http.StatusBadRequest, "validation_error", "Invalid input: "+err.Error())
			return
		}

		now := time.Now()
		category := models.Category{
			Name:        input.Name,
			Description: input.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := db.Create(&category).Error; err != nil {
			web.Error(c, http.StatusInternalServerError, "internal_error", "Failed to create category")
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

// DELETE /admin/categories/:id
func DeleteCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Delete(&models.Category{}, "id = ?", c.Param("id"))
		if result.Error != nil {
			web.Error(c, http.StatusInternalServerError, "internal_error", "Failed to delete category")
			return
		}
		if result.RowsAffected == 0 {
			web.Error(c, http.StatusNotFound, "not_found", "Category not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
	}
}
