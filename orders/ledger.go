package orders

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/models"
)

var ErrOrderNotFound = errors.New("order not found")

// Filters narrows the admin listing. Zero values mean "no filter".
type Filters struct {
	Search        string
	OrderStatus   string
	PaymentStatus string
}

// Stats aggregates order counts per status plus completed-payment sales,
// overall and for the current calendar month.
type Stats struct {
	TotalOrders int64           `json:"total_orders"`
	Pending     int64           `json:"pending"`
	Processing  int64           `json:"processing"`
	Shipped     int64           `json:"shipped"`
	Delivered   int64           `json:"delivered"`
	Cancelled   int64           `json:"cancelled"`
	Refunded    int64           `json:"refunded"`
	TotalSales  decimal.Decimal `json:"total_sales"`
	MonthSales  decimal.Decimal `json:"month_sales"`
}

// Ledger persists orders and tracks their status transitions.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

func (l *Ledger) Create(order *models.Order) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	return l.db.Create(order).Error
}

func (l *Ledger) FindByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := l.db.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (l *Ledger) FindByUser(userID uint) ([]models.Order, error) {
	var list []models.Order
	err := l.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// FindAll lists orders newest-first, optionally filtered by a search term
// (order number, customer name or email) and by either status. Unknown status
// strings in filters are ignored rather than rejected.
func (l *Ledger) FindAll(f Filters) ([]models.Order, error) {
	q := l.db.Preload("Items").Order("created_at DESC")

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where("order_number LIKE ? OR customer_name LIKE ? OR customer_email LIKE ?",
			pattern, pattern, pattern)
	}
	if f.OrderStatus != "" {
		if status, err := models.ParseOrderStatus(f.OrderStatus); err == nil {
			q = q.Where("status = ?", status)
		}
	}
	if f.PaymentStatus != "" {
		if status, err := models.ParsePaymentStatus(f.PaymentStatus); err == nil {
			q = q.Where("payment_status = ?", status)
		}
	}

	var list []models.Order
	err := q.Find(&list).Error
	return list, err
}

// UpdateStatus sets both the order status and the payment status in one call.
// Each string is parsed independently, case-insensitively; either one being
// unknown fails the whole update with models.ErrInvalidStatus. The two state
// machines are deliberately not cross-validated.
func (l *Ledger) UpdateStatus(id uint, orderStatus, paymentStatus string) (*models.Order, error) {
	parsedOrder, err := models.ParseOrderStatus(orderStatus)
	if err != nil {
		return nil, err
	}
	parsedPayment, err := models.ParsePaymentStatus(paymentStatus)
	if err != nil {
		return nil, err
	}

	order, err := l.FindByID(id)
	if err != nil {
		return nil, err
	}

	err = l.db.Model(order).Updates(map[string]interface{}{
		"status":         parsedOrder,
		"payment_status": parsedPayment,
		"updated_at":     time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}
	return l.FindByID(id)
}

// Delete removes an order and its items.
func (l *Ledger) Delete(id uint) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Order{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrOrderNotFound
		}
		return nil
	})
}

// Stats aggregates counts per order status and sums totals of orders whose
// payment completed. The month window starts at the first instant of the
// current calendar month, server-local time.
func (l *Ledger) Stats() (*Stats, error) {
	stats := &Stats{TotalSales: decimal.Zero, MonthSales: decimal.Zero}

	if err := l.db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}

	counts := map[models.OrderStatus]*int64{
		models.OrderStatusPending:    &stats.Pending,
		models.OrderStatusProcessing: &stats.Processing,
		models.OrderStatusShipped:    &stats.Shipped,
		models.OrderStatusDelivered:  &stats.Delivered,
		models.OrderStatusCancelled:  &stats.Cancelled,
		models.OrderStatusRefunded:   &stats.Refunded,
	}
	for status, dst := range counts {
		if err := l.db.Model(&models.Order{}).Where("status = ?", status).Count(dst).Error; err != nil {
			return nil, err
		}
	}

	var completed []models.Order
	if err := l.db.Where("payment_status = ?", models.PaymentStatusCompleted).
		Find(&completed).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for _, order := range completed {
		stats.TotalSales = stats.TotalSales.Add(order.Total)
		if !order.CreatedAt.Before(monthStart) {
			stats.MonthSales = stats.MonthSales.Add(order.Total)
		}
	}
	return stats, nil
}
