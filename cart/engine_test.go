package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/models"
)

func newTestEngine(t *testing.T) (*Engine, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))
	taxRate, err := decimal.NewFromString("0.19")
	require.NoError(t, err)
	return NewEngine(db, taxRate), db
}

func seedProduct(t *testing.T, db *gorm.DB, id uint, price string, stock int) models.Product {
	t.Helper()
	p := models.Product{
		ID:    id,
		Name:  "Product",
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func productStock(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, id).Error)
	return p.Stock
}

func testBilling() BillingData {
	return BillingData{
		FullName:       "Ana Torres",
		Identification: "1047412345",
		Phone:          "3001234567",
		Email:          "ana@example.com",
		Address:        "Calle 10 #5-20",
		City:           "Cartagena",
		Country:        "Colombia",
		PaymentMethod:  "Tarjeta",
	}
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	engine, db := newTestEngine(t)

	first, err := engine.GetOrCreate(1)
	require.NoError(t, err)
	second, err := engine.GetOrCreate(1)
	require.NoError(t, err)
	assert.Equal(t, first.CartID, second.CartID)

	var count int64
	db.Model(&models.Cart{}).Where("user_id = ?", 1).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestAddItemDenormalizesProduct(t *testing.T) {
	engine, db := newTestEngine(t)
	seedProduct(t, db, 42, "25.50", 10)

	userCart, err := engine.AddItem(1, 42, 2)
	require.NoError(t, err)
	require.Len(t, userCart.Items, 1)

	item := userCart.Items[0]
	assert.EqualValues(t, 42, item.ProductID)
	assert.Equal(t, 2, item.Quantity)
	assert.True(t, item.UnitPrice.Equal(decimal.RequireFromString("25.50")))
	assert.True(t, item.Subtotal.Equal(decimal.RequireFromString("51.00")))
	assert.Equal(t, 2, userCart.ItemCount)
}

func TestAddItemProductNotFound(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.AddItem(1, 999, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddItemInsufficientStockLeavesCartUnmodified(t *testing.T) {
	engine, db := newTestEngine(t)
	seedProduct(t, db, 7, "10.00", 2)

	_, err := engine.AddItem(1, 7, 3)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	userCart, err := engine.GetOrCreate(1)
	require.NoError(t, err)
	assert.True(t, userCart.IsEmpty())
	assert.Equal(t, 0, userCart.ItemCount)
}

func TestAddItemCombinesQuantities(t *testing.T) {
	engine, db := newTestEngine(t)
	seedProduct(t, db, 42, "10.00", 5)

	_, err := engine.AddItem(1, 42, 2)
	require.NoError(t, err)

	userCart, err := engine.AddItem(1, 42, 3)
	require.NoError(t, err)
	require.Len(t, userCart.Items, 1)
	assert.Equal(t, 5, userCart.Items[0].Quantity)

	// One more unit would exceed stock for the combined quantity.
	_, err = engine.AddItem(1, 42, 1)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	userCart, err = engine.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 5, userCart.Items[0].Quantity)
}

func TestUpdateQuantityIsAuthoritative(t *testing.T) {
	engine, db := newTestEngine(t)
	seedProduct(t, db, 42, "10.00", 10)

	_, err := engine.AddItem(1, 42, 2)
	require.NoError(t, err)

	userCart, err := engine.UpdateQuantity(1, 42, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, userCart.Items[0].Quantity)
	assert.True(t, userCart.Subtotal.Equal(decimal.RequireFromString("50.00")))

	_, err = engine.UpdateQuantity(1, 42, 11)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = engine.UpdateQuantity(1, 99, 1)
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = engine.UpdateQuantity(2, 42, 1)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestRemoveItem(t *testing.T) {
	engine, db := newTestEngine(t)
	seedProduct(t, db, 1, "10.00", 10)
	seedProduct(t, db, 2, "20.00", 10)

	_, err := engine.AddItem(1, 1, 1)
	require.NoError(t, err)
	_, err = engine.AddItem(1, 2, 1)
	require.NoError(t, err)

	userCart, err := engine.RemoveItem(1, 1)
	require.NoError(t, err)
	require.Len(t, userCart.Items, 1)
	assert.EqualValues(t, 2, userCart.Items[0].ProductID)
	assert.True(t, userCart.Subtotal.Equal(decimal.RequireFromString("20.00")))

	_, err = engine.RemoveItem(1, 1)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestClearIsIdempotent(t *testing.T) {
	engine, db := newTestEngine(t)
	seedProduct(t, db, 1, "10.00", 10)

	_, err := engine.AddItem(1, 1, 3)
	require.NoError(t, err)

	userCart, err := engine.Clear(1)
	require.NoError(t, err)
	assert.True(t, userCart.IsEmpty())
	assert.True(t, userCart.Total.IsZero())

	userCart, err = engine.Clear(1)
	require.NoError(t, err)
	assert.True(t, userCart.IsEmpty())
}

func TestTotalsInvariant(t *testing.T) {
	engine, db := newTestEngine(t)
	seedProduct(t, db, 1, "19.99", 50)
	seedProduct(t, db, 2, "5.25", 50)
	seedProduct(t, db, 3, "100.00", 50)

	_, err := engine.AddItem(1, 1, 3)
	require.NoError(t, err)
	_, err = engine.AddItem(1, 2, 7)
	require.NoError(t, err)
	_, err = engine.AddItem(1, 3, 1)
	require.NoError(t, err)
	_, err = engine.UpdateQuantity(1, 2, 2)
	require.NoError(t, err)
	userCart, err := engine.RemoveItem(1, 3)
	require.NoError(t, err)

	// subtotal = 3*19.99 + 2*5.25 = 70.47; tax = 70.47*0.19 = 13.39 (half-up)
	assert.Equal(t, "70.47", userCart.Subtotal.StringFixed(2))
	assert.Equal(t, "0.00", userCart.DiscountTotal.StringFixed(2))
	assert.Equal(t, "13.39", userCart.Tax.StringFixed(2))
	assert.Equal(t, "83.86", userCart.Total.StringFixed(2))
	assert.True(t, userCart.Total.Equal(userCart.Subtotal.Sub(userCart.DiscountTotal).Add(userCart.Tax)))
	assert.Equal(t, 5, userCart.ItemCount)
}

func TestTotalsWithItemDiscount(t *testing.T) {
	engine, db := newTestEngine(t)
	seedProduct(t, db, 1, "100.00", 10)

	_, err := engine.AddItem(1, 1, 2)
	require.NoError(t, err)

	// Apply a 10% discount to the line, then trigger a recompute.
	var item models.CartItem
	require.NoError(t, db.Where("product_id = ?", 1).First(&item).Error)
	item.DiscountPct = decimal.RequireFromString("10")
	item.Recalculate()
	require.NoError(t, db.Save(&item).Error)

	userCart, err := engine.UpdateQuantity(1, 1, 2)
	require.NoError(t, err)

	// subtotal 200.00, discount 20.00, tax = 180*0.19 = 34.20, total 214.20
	assert.Equal(t, "200.00", userCart.Subtotal.StringFixed(2))
	assert.Equal(t, "20.00", userCart.DiscountTotal.StringFixed(2))
	assert.Equal(t, "34.20", userCart.Tax.StringFixed(2))
	assert.Equal(t, "214.20", userCart.Total.StringFixed(2))
}

func TestCheckStock(t *testing.T) {
	engine, db := newTestEngine(t)
	seedProduct(t, db, 1, "10.00", 5)

	// No cart, then empty cart: both unavailable.
	ok, err := engine.CheckStock(1)
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = engine.GetOrCreate(1)
	require.NoError(t, err)
	ok, err = engine.CheckStock(1)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = engine.AddItem(1, 1, 3)
	require.NoError(t, err)
	ok, err = engine.CheckStock(1)
	require.NoError(t, err)
	assert.True(t, ok)

	// Live stock drops below the cart quantity after the item was added.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", 1).Update("stock", 2).Error)
	ok, err = engine.CheckStock(1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckoutScenario(t *testing.T) {
	engine, db := newTestEngine(t)
	seedProduct(t, db, 42, "10.00", 10)

	_, err := engine.AddItem(1, 42, 2)
	require.NoError(t, err)
	_, err = engine.UpdateQuantity(1, 42, 5)
	require.NoError(t, err)

	invoice, err := engine.Checkout(1, testBilling())
	require.NoError(t, err)

	require.Len(t, invoice.Items, 1)
	assert.Equal(t, 5, invoice.Items[0].Quantity)
	assert.Equal(t, "50.00", invoice.Subtotal.StringFixed(2))
	assert.Equal(t, "9.50", invoice.Tax.StringFixed(2))
	assert.Equal(t, "59.50", invoice.Total.StringFixed(2))
	assert.NotEmpty(t, invoice.OrderNumber)
	assert.NotEmpty(t, invoice.TicketNumber)
	assert.Equal(t, "NebulaTech - E-Commerce", invoice.Company.Name)

	var order models.Order
	require.NoError(t, db.Preload("Items").Where("order_number = ?", invoice.OrderNumber).First(&order).Error)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, "Ana Torres", order.CustomerName)
	assert.Equal(t, "Tarjeta", order.PaymentMethod)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 5, order.Items[0].Quantity)

	// Cart is empty again and stock went down by exactly the purchased qty.
	userCart, err := engine.Get(1)
	require.NoError(t, err)
	assert.True(t, userCart.IsEmpty())
	assert.Equal(t, 0, userCart.ItemCount)
	assert.Equal(t, 5, productStock(t, db, 42))
}

func TestCheckoutEmptyCartFails(t *testing.T) {
	engine, db := newTestEngine(t)
	seedProduct(t, db, 1, "10.00", 10)
	_, err := engine.GetOrCreate(1)
	require.NoError(t, err)

	_, err = engine.Checkout(1, testBilling())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, 10, productStock(t, db, 1))
}

func TestCheckoutNoCartFails(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.Checkout(1, testBilling())
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCheckoutInsufficientStockDecrementsNothing(t *testing.T) {
	engine, db := newTestEngine(t)
	seedProduct(t, db, 1, "10.00", 5)
	seedProduct(t, db, 2, "20.00", 5)

	_, err := engine.AddItem(1, 1, 3)
	require.NoError(t, err)
	_, err = engine.AddItem(1, 2, 3)
	require.NoError(t, err)

	// Another buyer drains product 2 before this checkout.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", 2).Update("stock", 1).Error)

	_, err = engine.Checkout(1, testBilling())
	assert.ErrorIs(t, err, ErrInsufficientStock)

	assert.Equal(t, 5, productStock(t, db, 1))
	assert.Equal(t, 1, productStock(t, db, 2))

	userCart, err := engine.Get(1)
	require.NoError(t, err)
	assert.Len(t, userCart.Items, 2)

	var orderCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	assert.EqualValues(t, 0, orderCount)
}

func TestCheckoutAllowsNewCartAfterwards(t *testing.T) {
	engine, db := newTestEngine(t)
	seedProduct(t, db, 1, "10.00", 10)

	_, err := engine.AddItem(1, 1, 2)
	require.NoError(t, err)
	_, err = engine.Checkout(1, testBilling())
	require.NoError(t, err)

	userCart, err := engine.AddItem(1, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, userCart.ItemCount)
}
