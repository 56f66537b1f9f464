package cartControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/cart"
	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/middleware"
	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/web"
)

type AddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// GET /cart
func GetCart(engine *cart.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			web.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}
		userCart, err := engine.GetOrCreate(userID)
		if err != nil {
			web.Error(c, http.StatusInternalServerError, "internal_error", "Failed to fetch cart")
			return
		}
		c.JSON(http.StatusOK, userCart)
	}
}

// GET /cart/count
func GetCount(engine *cart.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			web.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}
		count, err := engine.Count(userID)
		if err != nil {
			web.Error(c, http.StatusInternalServerError, "internal_error", "Failed to count items")
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})
	}
}

// POST /cart/items
func AddItem(engine *cart.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			web.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		var req AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			web.Error(c, http.StatusBadRequest, "validation_error", "Invalid input: "+err.Error())
			return
		}

		userCart, err := engine.AddItem(userID, req.ProductID, req.Quantity)
		if err != nil {
			cartError(c, err)
			return
		}
		c.JSON(http.StatusOK, userCart)
	}
}

// PUT /cart/items/:product_id
func UpdateQuantity(engine *cart.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			web.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		productID, err := parseID(c.Param("product_id"))
		if err != nil {
			web.Error(c, http.StatusBadRequest, "validation_error", "Invalid product id")
			return
		}

		var req UpdateQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			web.Error(c, http.StatusBadRequest, "validation_error", "Invalid input: "+err.Error())
			return
		}

		userCart, err := engine.UpdateQuantity(userID, productID, req.Quantity)
		if err != nil {
			cartError(c, err)
			return
		}
		c.JSON(http.StatusOK, userCart)
	}
}

// DELETE /cart/items/:product_id
func RemoveItem(engine *cart.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			web.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		productID, err := parseID(c.Param("product_id"))
		if err != nil {
			web.Error(c, http.StatusBadRequest, "validation_error", "Invalid product id")
			return
		}

		userCart, err := engine.RemoveItem(userID, productID)
		if err != nil {
			cartError(c, err)
			return
		}
		c.JSON(http.StatusOK, userCart)
	}
}

// DELETE /cart
func Clear(engine *cart.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			web.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		userCart, err := engine.Clear(userID)
		if err != nil {
			cartError(c, err)
			return
		}
		c.JSON(http.StatusOK, userCart)
	}
}

// GET /cart/stock-check
func StockCheck(engine *cart.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			web.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		available, err := engine.CheckStock(userID)
		if err != nil {
			web.Error(c, http.StatusInternalServerError, "internal_error", "Stock check failed")
			return
		}
		c.JSON(http.StatusOK, gin.H{"available": available})
	}
}

// POST /cart/checkout
func Checkout(engine *cart.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			web.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		var billing cart.BillingData
		if err := c.ShouldBindJSON(&billing); err != nil {
			web.Error(c, http.StatusBadRequest, "validation_error", "Invalid billing data: "+err.Error())
			return
		}

		invoice, err := engine.Checkout(userID, billing)
		if err != nil {
			middleware.RecordCheckout(false)
			cartError(c, err)
			return
		}
		middleware.RecordCheckout(true)
		c.JSON(http.StatusCreated, invoice)
	}
}

// cartError translates engine failures into the response taxonomy: not-found
// conditions map to 404, business-rule violations to 400, the rest to 500.
func cartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cart.ErrCartNotFound):
		web.Error(c, http.StatusNotFound, "not_found", "Cart not found")
	case errors.Is(err, cart.ErrItemNotFound):
		web.Error(c, http.StatusNotFound, "not_found", "Item not found in cart")
	case errors.Is(err, cart.ErrProductNotFound):
		web.Error(c, http.StatusNotFound, "not_found", "Product not found")
	case errors.Is(err, cart.ErrInsufficientStock):
		web.Error(c, http.StatusBadRequest, "business_rule_violation", "Insufficient stock for one or more products")
	case errors.Is(err, cart.ErrEmptyCart):
		web.Error(c, http.StatusBadRequest, "business_rule_violation", "Cart is empty")
	default:
		web.Error(c, http.StatusInternalServerError, "internal_error", "Cart operation failed")
	}
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	return uint(id), err
}
