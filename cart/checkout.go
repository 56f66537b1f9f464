package cart

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/models"
)

// BillingData is the customer information captured at checkout. It is
// snapshotted into the order and never re-derived from the user profile.
type BillingData struct {
	FullName       string `json:"full_name" binding:"required"`
	Identification string `json:"identification" binding:"required"`
	Phone          string `json:"phone" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Address        string `json:"address" binding:"required"`
	City           string `json:"city" binding:"required"`
	Country        string `json:"country" binding:"required"`
	PostalCode     string `json:"postal_code"`
	PaymentMethod  string `json:"payment_method" binding:"required"`
}

type InvoiceItem struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// Invoice is the itemized summary returned by a successful checkout.
type Invoice struct {
	TicketNumber  string          `json:"ticket_number"`
	OrderNumber   string          `json:"order_number"`
	Date          time.Time       `json:"date"`
	Customer      BillingData     `json:"customer"`
	Items         []InvoiceItem   `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	Company       CompanyInfo     `json:"company"`
}

// CompanyInfo is the fixed "from" block printed on every invoice.
type CompanyInfo struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`
}

var defaultCompany = CompanyInfo{
	Name:    "NebulaTech - E-Commerce",
	TaxID:   "900.123.456-7",
	Address: "Carrera 5 #10-50, Cartagena, Bolívar, Colombia",
	Phone:   "(605) 660-1234",
	Email:   "ventas@nebulatech.com",
	Website: "www.nebulatech.com",
}

func newOrderNumber() string {
	return "PED-" + strings.ToUpper(uuid.NewString()[:8])
}

func newTicketNumber() string {
	return fmt.Sprintf("#%06d", time.Now().UnixMilli()%1000000)
}

// Checkout converts the cart into an order: it validates live stock, creates
// the order with its item snapshot, decrements each product's stock and
// empties the cart. Everything happens in one transaction; a failure at any
// step rolls the whole operation back, so stock is never decremented for a
// cancelled order.
func (e *Engine) Checkout(userID uint, billing BillingData) (*Invoice, error) {
	cart, err := e.Get(userID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	ok, err := e.CheckStock(userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInsufficientStock
	}

	orderNumber := newOrderNumber()
	ticketNumber := newTicketNumber()
	var invoice *Invoice

	err = e.db.Transaction(func(tx *gorm.DB) error {
		orderItems := make([]models.OrderItem, 0, len(cart.Items))
		invoiceItems := make([]InvoiceItem, 0, len(cart.Items))

		for _, item := range cart.Items {
			var product models.Product
			if err := e.forUpdate(tx).First(&product, item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductNotFound
				}
				return err
			}

			// Re-check under the lock; CheckStock ran outside it.
			if product.Stock < item.Quantity {
				return ErrInsufficientStock
			}

			product.Stock -= item.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}

			orderItems = append(orderItems, models.OrderItem{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Image:       item.Image,
				UnitPrice:   item.UnitPrice,
				Quantity:    item.Quantity,
				Discount:    item.Discount,
				Subtotal:    item.Subtotal,
			})
			invoiceItems = append(invoiceItems, InvoiceItem{
				ProductName: item.ProductName,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				Discount:    item.Discount,
				Subtotal:    item.Subtotal,
			})
		}

		now := time.Now()
		order := models.Order{
			UserID:        userID,
			OrderNumber:   orderNumber,
			TicketNumber:  ticketNumber,
			Items:         orderItems,
			Subtotal:      cart.Subtotal,
			DiscountTotal: cart.DiscountTotal,
			Tax:           cart.Tax,
			Total:         cart.Total,
			Status:        models.OrderStatusPending,
			PaymentStatus: models.PaymentStatusPending,

			CustomerName:           billing.FullName,
			CustomerIdentification: billing.Identification,
			CustomerPhone:          billing.Phone,
			CustomerEmail:          billing.Email,
			CustomerAddress:        billing.Address,
			CustomerCity:           billing.City,
			CustomerCountry:        billing.Country,
			PaymentMethod:          billing.PaymentMethod,

			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		invoice = &Invoice{
			TicketNumber:  ticketNumber,
			OrderNumber:   orderNumber,
			Date:          now,
			Customer:      billing,
			Items:         invoiceItems,
			Subtotal:      cart.Subtotal,
			DiscountTotal: cart.DiscountTotal,
			Tax:           cart.Tax,
			Total:         cart.Total,
			Company:       defaultCompany,
		}

		if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return e.recomputeTotals(tx, cart.CartID)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("cart: order %s (ticket %s) created from cart %d of user %d",
		orderNumber, ticketNumber, cart.CartID, userID)
	return invoice, nil
}
