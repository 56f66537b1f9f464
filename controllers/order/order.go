package orderControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/middleware"
	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/models"
	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/orders"
	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/web"
)

type UpdateStatusRequest struct {
	Status        string `json:"status" binding:"required"`
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// GET /orders
func GetMyOrders(ledger *orders.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			web.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}
		list, err := ledger.FindByUser(userID)
		if err != nil {
			web.Error(c, http.StatusInternalServerError, "internal_error", "Failed to fetch orders")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GET /orders/:id — owners see their own orders, admins see any.
func GetOrder(ledger *orders.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			web.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		id, err := parseID(c.Param("id"))
		if err != nil {
			web.Error(c, http.StatusBadRequest, "validation_error", "Invalid order id")
			return
		}

		order, err := ledger.FindByID(id)
		if err != nil {
			orderError(c, err)
			return
		}

		role, _ := c.Get("role")
		if order.UserID != userID && role != "ADMIN" {
			web.Error(c, http.StatusForbidden, "forbidden", "You do not own this order")
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /admin/orders
func GetAllOrders(ledger *orders.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := ledger.FindAll(orders.Filters{
			Search:        c.Query("search"),
			OrderStatus:   c.Query("status"),
			PaymentStatus: c.Query("payment_status"),
		})
		if err != nil {
			web.Error(c, http.StatusInternalServerError, "internal_error", "Failed to fetch orders")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// PUT /admin/orders/:id/status
func UpdateStatus(ledger *orders.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			web.Error(c, http.StatusBadRequest, "validation_error", "Invalid order id")
			return
		}

		var req UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			web.Error(c, http.StatusBadRequest, "validation_error", "Invalid input: "+err.Error())
			return
		}

		order, err := ledger.UpdateStatus(id, req.Status, req.PaymentStatus)
		if err != nil {
			orderError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// DELETE /admin/orders/:id
func DeleteOrder(ledger *orders.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			web.Error(c, http.StatusBadRequest, "validation_error", "Invalid order id")
			return
		}
		if err := ledger.Delete(id); err != nil {
			orderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
	}
}

// GET /admin/orders/stats
func GetStats(ledger *orders.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := ledger.Stats()
		if err != nil {
			web.Error(c, http.StatusInternalServerError, "internal_error", "Failed to compute stats")
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func orderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, orders.ErrOrderNotFound):
		web.Error(c, http.StatusNotFound, "not_found", "Order not found")
	case errors.Is(err, models.ErrInvalidStatus):
		web.Error(c, http.StatusBadRequest, "validation_error", "Unknown order or payment status")
	default:
		web.Error(c, http.StatusInternalServerError, "internal_error", "Order operation failed")
	}
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	return uint(id), err
}
