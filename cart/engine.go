package cart

import (
	"errors"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/models"
)

var (
	ErrCartNotFound      = errors.New("cart not found")
	ErrItemNotFound      = errors.New("item not found in cart")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyCart         = errors.New("cart is empty")
)

// Engine manages cart contents and the cart-to-order conversion. Every
// mutation runs inside a single database transaction and recomputes the
// cart's totals before committing.
type Engine struct {
	db      *gorm.DB
	taxRate decimal.Decimal
}

func NewEngine(db *gorm.DB, taxRate decimal.Decimal) *Engine {
	return &Engine{db: db, taxRate: taxRate}
}

// forUpdate adds a row lock on stores that support it. SQLite (used in tests)
// has no FOR UPDATE; its single-writer model serializes writers anyway.
func (e *Engine) forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// GetOrCreate returns the user's cart, creating an empty one on first access.
// The unique index on user_id guarantees at most one cart per user.
func (e *Engine) GetOrCreate(userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := e.db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = models.Cart{
		UserID:        userID,
		Subtotal:      decimal.Zero,
		DiscountTotal: decimal.Zero,
		Tax:           decimal.Zero,
		Total:         decimal.Zero,
	}
	if err := e.db.Create(&cart).Error; err != nil {
		// Lost a create race with another request of the same user; the
		// unique constraint rejected us, so the cart exists now.
		if fetchErr := e.db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; fetchErr == nil {
			return &cart, nil
		}
		return nil, err
	}
	log.Printf("cart: created cart %d for user %d", cart.CartID, userID)
	return &cart, nil
}

// Get returns the user's cart without creating one.
func (e *Engine) Get(userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := e.db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	return &cart, nil
}

// AddItem puts qty units of the product into the user's cart. If the product
// is already present the quantities are combined, and the combined quantity is
// what gets validated against the product's current stock. Product name,
// image and price are denormalized into the item at this moment and never
// refreshed afterwards.
func (e *Engine) AddItem(userID, productID uint, qty int) (*models.Cart, error) {
	cart, err := e.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	err = e.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		if qty > product.Stock {
			return ErrInsufficientStock
		}

		var item models.CartItem
		err := tx.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).First(&item).Error
		switch {
		case err == nil:
			newQty := item.Quantity + qty
			if newQty > product.Stock {
				return ErrInsufficientStock
			}
			item.Quantity = newQty
			item.UpdatedAt = time.Now()
			item.Recalculate()
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			now := time.Now()
			item = models.CartItem{
				CartID:      cart.CartID,
				ProductID:   product.ID,
				ProductName: product.Name,
				Image:       product.Image,
				UnitPrice:   product.Price,
				Quantity:    qty,
				DiscountPct: decimal.Zero,
				AddedAt:     now,
				UpdatedAt:   now,
			}
			item.Recalculate()
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return e.recomputeTotals(tx, cart.CartID)
	})
	if err != nil {
		return nil, err
	}
	return e.Get(userID)
}

// UpdateQuantity sets the item's quantity to newQty (authoritative, not
// additive) after validating it against the product's current stock.
func (e *Engine) UpdateQuantity(userID, productID uint, newQty int) (*models.Cart, error) {
	cart, err := e.Get(userID)
	if err != nil {
		return nil, err
	}

	err = e.db.Transaction(func(tx *gorm.DB) error {
		var item models.CartItem
		if err := tx.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}

		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		if newQty > product.Stock {
			return ErrInsufficientStock
		}

		item.Quantity = newQty
		item.UpdatedAt = time.Now()
		item.Recalculate()
		if err := tx.Save(&item).Error; err != nil {
			return err
		}

		return e.recomputeTotals(tx, cart.CartID)
	})
	if err != nil {
		return nil, err
	}
	return e.Get(userID)
}

// RemoveItem deletes one product line from the cart.
func (e *Engine) RemoveItem(userID, productID uint) (*models.Cart, error) {
	cart, err := e.Get(userID)
	if err != nil {
		return nil, err
	}

	err = e.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).
			Delete(&models.CartItem{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrItemNotFound
		}
		return e.recomputeTotals(tx, cart.CartID)
	})
	if err != nil {
		return nil, err
	}
	return e.Get(userID)
}

// Clear empties the cart. Clearing an already-empty cart is a no-op.
func (e *Engine) Clear(userID uint) (*models.Cart, error) {
	cart, err := e.Get(userID)
	if err != nil {
		return nil, err
	}

	err = e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return e.recomputeTotals(tx, cart.CartID)
	})
	if err != nil {
		return nil, err
	}
	return e.Get(userID)
}

// Count returns the total number of units across the cart, 0 if the user has
// no cart yet.
func (e *Engine) Count(userID uint) (int, error) {
	cart, err := e.Get(userID)
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return cart.ItemCount, nil
}

// CheckStock reports whether the cart is non-empty and every item's quantity
// is covered by the product's current stock. Stock is re-read from the
// catalog, not from the denormalized item row.
func (e *Engine) CheckStock(userID uint) (bool, error) {
	cart, err := e.Get(userID)
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			return false, nil
		}
		return false, err
	}
	if cart.IsEmpty() {
		return false, nil
	}

	for _, item := range cart.Items {
		var product models.Product
		if err := e.db.First(&product, item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("cart: product %d in cart %d no longer exists", item.ProductID, cart.CartID)
				return false, nil
			}
			return false, err
		}
		if product.Stock < item.Quantity {
			log.Printf("cart: insufficient stock for product %d: want %d, have %d",
				item.ProductID, item.Quantity, product.Stock)
			return false, nil
		}
	}
	return true, nil
}

// recomputeTotals reloads the cart's items inside the transaction and writes
// back the derived monetary fields. Discount is applied per item before tax;
// tax applies to the discounted base and is rounded half-up to 2 decimals.
func (e *Engine) recomputeTotals(tx *gorm.DB, cartID uint) error {
	var items []models.CartItem
	if err := tx.Where("cart_id = ?", cartID).Find(&items).Error; err != nil {
		return err
	}

	subtotal := decimal.Zero
	discountTotal := decimal.Zero
	itemCount := 0
	for _, item := range items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		discountTotal = discountTotal.Add(item.Discount)
		itemCount += item.Quantity
	}

	base := subtotal.Sub(discountTotal)
	tax := base.Mul(e.taxRate).Round(2)
	total := base.Add(tax)

	return tx.Model(&models.Cart{}).Where("cart_id = ?", cartID).Updates(map[string]interface{}{
		"subtotal":       subtotal,
		"discount_total": discountTotal,
		"tax":            tax,
		"total":          total,
		"item_count":     itemCount,
		"updated_at":     time.Now(),
	}).Error
}
