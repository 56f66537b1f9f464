package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	CartID        uint            `gorm:"primaryKey" json:"cart_id"`
	UserID        uint            `gorm:"uniqueIndex;not null" json:"user_id"` // one cart per user
	Items         []CartItem      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(10,2)" json:"subtotal"`
	DiscountTotal decimal.Decimal `gorm:"type:decimal(10,2)" json:"discount_total"`
	Tax           decimal.Decimal `gorm:"type:decimal(10,2)" json:"tax"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2)" json:"total"`
	ItemCount     int             `json:"item_count"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// CartItem denormalizes the product's name, image and price at the moment it
// is added. Prices are not refreshed afterwards so the displayed totals stay
// stable; stock checks always go back to the product row.
type CartItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CartID      uint            `gorm:"index;not null" json:"cart_id"`
	ProductID   uint            `gorm:"not null" json:"product_id"`
	ProductName string          `json:"product_name"`
	Image       string          `json:"image"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	DiscountPct decimal.Decimal `gorm:"type:decimal(5,2)" json:"discount_pct"`
	Discount    decimal.Decimal `gorm:"type:decimal(10,2)" json:"discount"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(10,2)" json:"subtotal"`
	AddedAt     time.Time       `json:"added_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Recalculate refreshes the item's discount and subtotal from its unit price,
// quantity and discount percentage. subtotal = price*qty - discount, where
// discount = price*qty*(pct/100) rounded half-up to 2 decimals.
func (i *CartItem) Recalculate() {
	gross := i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
	if i.DiscountPct.IsPositive() {
		i.Discount = gross.Mul(i.DiscountPct.Div(decimal.NewFromInt(100))).Round(2)
	} else {
		i.Discount = decimal.Zero
	}
	i.Subtotal = gross.Sub(i.Discount)
}
