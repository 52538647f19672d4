package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestEnums(t *testing.T) {
	testCases := []struct {
		name  string
		valid bool
		check func() bool
	}{
		{"category beverages", true, CategoryBeverages.IsValid},
		{"category unknown", false, Category("Snacks").IsValid},
		{"payment upi", true, PaymentUPI.IsValid},
		{"payment cheque", false, PaymentMethod("cheque").IsValid},
		{"status completed", true, OrderStatusCompleted.IsValid},
		{"status refunded", false, OrderStatus("refunded").IsValid},
		{"role manager", true, RoleManager.IsValid},
		{"role owner", false, StaffRole("Owner").IsValid},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.valid, tc.check())
		})
	}
}

func TestParse(t *testing.T) {
	m, err := ParsePaymentMethod("card")
	require.NoError(t, err)
	require.Equal(t, PaymentCard, m)
	_, err = ParsePaymentMethod("CARD")
	require.Error(t, err)

	c, err := ParseCategory("Dessert")
	require.NoError(t, err)
	require.Equal(t, CategoryDessert, c)

	_, err = ParseStaffRole("")
	require.Error(t, err)
}

func TestOrderStatusTransition(t *testing.T) {
	require.True(t, OrderStatusCompleted.CanTransitionTo(OrderStatusCancelled))
	require.False(t, OrderStatusCancelled.CanTransitionTo(OrderStatusCompleted))
	require.False(t, OrderStatusCancelled.CanTransitionTo(OrderStatusCancelled))
	require.False(t, OrderStatusCompleted.CanTransitionTo(OrderStatusCompleted))
}

func TestProductIsLowStock(t *testing.T) {
	p := &Product{Stock: 5, MinStock: 5}
	require.False(t, p.IsLowStock())
	p.Stock = 4
	require.True(t, p.IsLowStock())
}

func TestCartSubtotal(t *testing.T) {
	cart := &Cart{Items: []OrderItem{
		{ProductID: "a", Price: decimal.RequireFromString("25.00"), Quantity: 2},
		{ProductID: "b", Price: decimal.RequireFromString("12.50"), Quantity: 1},
	}}
	require.True(t, cart.ItemsSubtotal().Equal(decimal.RequireFromString("62.50")))
	require.Equal(t, 2, cart.QuantityOf("a"))
	require.Equal(t, 0, cart.QuantityOf("c"))
	require.False(t, cart.IsEmpty())
}

func TestDefaultStoreConfig(t *testing.T) {
	cfg := DefaultStoreConfig()
	require.Equal(t, uint(1), cfg.ID)
	require.Equal(t, "Mumbai Brew Co.", cfg.Name)
	require.Equal(t, "₹", cfg.Currency)
	require.True(t, cfg.TaxRate.Equal(decimal.RequireFromString("0.05")))
}
