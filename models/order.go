package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusRefunded   OrderStatus = "REFUNDED"

	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

var ErrInvalidStatus = errors.New("invalid status value")

// ParseOrderStatus maps a string to a known order status, case-insensitively.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(strings.ToUpper(s)) {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return OrderStatus(strings.ToUpper(s)), nil
	default:
		return "", ErrInvalidStatus
	}
}

// ParsePaymentStatus maps a string to a known payment status, case-insensitively.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(strings.ToUpper(s)) {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed,
		PaymentStatusRefunded:
		return PaymentStatus(strings.ToUpper(s)), nil
	default:
		return "", ErrInvalidStatus
	}
}

// Order is created once, at checkout, from the contents of a cart. Identity
// fields (order number, ticket number) are generated at creation and never
// change; the billing block is a snapshot of what the client sent at checkout
// and is never re-derived from the user profile.
type Order struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"index;not null" json:"user_id"`
	OrderNumber   string          `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	TicketNumber  string          `gorm:"size:50" json:"ticket_number"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(10,2)" json:"subtotal"`
	DiscountTotal decimal.Decimal `gorm:"type:decimal(10,2)" json:"discount_total"`
	Tax           decimal.Decimal `gorm:"type:decimal(10,2)" json:"tax"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Status        OrderStatus     `gorm:"type:VARCHAR(20);default:'PENDING'" json:"status"`
	PaymentStatus PaymentStatus   `gorm:"type:VARCHAR(20);default:'PENDING'" json:"payment_status"`

	// Billing snapshot
	CustomerName           string `gorm:"size:200" json:"customer_name"`
	CustomerIdentification string `gorm:"size:50" json:"customer_identification"`
	CustomerPhone          string `gorm:"size:20" json:"customer_phone"`
	CustomerEmail          string `gorm:"size:100" json:"customer_email"`
	CustomerAddress        string `gorm:"size:300" json:"customer_address"`
	CustomerCity           string `gorm:"size:100" json:"customer_city"`
	CustomerCountry        string `gorm:"size:100" json:"customer_country"`
	PaymentMethod          string `gorm:"size:50" json:"payment_method"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     uint            `gorm:"index;not null" json:"order_id"`
	ProductID   uint            `gorm:"not null" json:"product_id"`
	ProductName string          `json:"product_name"`
	Image       string          `json:"image"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Discount    decimal.Decimal `gorm:"type:decimal(10,2)" json:"discount"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(10,2)" json:"subtotal"`
}
