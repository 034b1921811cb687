package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/aymen12m12-coder/sareeone1/models"
)

func TestComputeDriverEarnings(t *testing.T) {
	tests := []struct {
		name string
		fee  string
		want string
	}{
		{"base fee rounds half up", "5", "4"},       // 3.5 -> 4
		{"even split", "10", "7"},                   // 7.0
		{"rounds down below half", "7", "5"},        // 4.9 -> 5
		{"zero fee", "0", "0"},
		{"fractional fee", "5.5", "4"},              // 3.85 -> 4
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, err := decimal.NewFromString(tt.fee)
			assert.NoError(t, err)
			got := ComputeDriverEarnings(fee)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestComputeTotal(t *testing.T) {
	tests := []struct {
		name     string
		subtotal string
		fee      string
		discount string
		want     string
	}{
		{"subtotal plus fee", "40", "5", "", "45"},
		{"with discount", "40", "5", "10", "35"},
		{"discount exceeds total", "10", "5", "100", "0"},
		{"invalid subtotal treated as zero", "abc", "5", "", "5"},
		{"invalid discount treated as zero", "40", "5", "oops", "45"},
		{"all invalid", "NaN", "", "x", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotal(tt.subtotal, tt.fee, tt.discount)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestResolveDeliveryFee(t *testing.T) {
	tests := []struct {
		name       string
		restaurant *models.Restaurant
		itemCount  int
		want       string
	}{
		{"restaurant fee wins", &models.Restaurant{DeliveryFee: "7.5"}, 2, "7.5"},
		{"empty fee falls back to base", &models.Restaurant{}, 2, "5"},
		{"invalid fee falls back to base", &models.Restaurant{DeliveryFee: "free"}, 2, "5"},
		{"negative fee falls back to base", &models.Restaurant{DeliveryFee: "-2"}, 2, "5"},
		{"zero fee is honored", &models.Restaurant{DeliveryFee: "0"}, 2, "0"},
		{"no restaurant falls back to base", nil, 2, "5"},
		{"empty cart pays nothing", &models.Restaurant{DeliveryFee: "7.5"}, 0, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveDeliveryFee(tt.restaurant, tt.itemCount)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestBaseDeliveryFeeOverride(t *testing.T) {
	t.Setenv("DELIVERY_BASE_FEE", "8")
	assert.Equal(t, "8", BaseDeliveryFee().String())

	t.Setenv("DELIVERY_BASE_FEE", "-3")
	assert.Equal(t, "5", BaseDeliveryFee().String())

	t.Setenv("DELIVERY_BASE_FEE", "cheap")
	assert.Equal(t, "5", BaseDeliveryFee().String())
}

func TestComputeSubtotal(t *testing.T) {
	items := []models.OrderItem{
		{Name: "Shawarma", Price: "10", Quantity: 2},
		{Name: "Falafel Plate", Price: "20", Quantity: 1},
	}
	assert.Equal(t, "40", ComputeSubtotal(items).String())

	// Bad prices count as zero instead of poisoning the sum.
	items = append(items, models.OrderItem{Name: "Mystery", Price: "??", Quantity: 3})
	assert.Equal(t, "40", ComputeSubtotal(items).String())

	assert.Equal(t, "0", ComputeSubtotal(nil).String())
}

func TestMeetsMinimumOrder(t *testing.T) {
	fifty := &models.Restaurant{MinimumOrder: "50"}
	assert.False(t, MeetsMinimumOrder(decimal.NewFromInt(40), fifty))
	assert.True(t, MeetsMinimumOrder(decimal.NewFromInt(50), fifty))
	assert.True(t, MeetsMinimumOrder(decimal.NewFromInt(60), fifty))

	assert.True(t, MeetsMinimumOrder(decimal.NewFromInt(1), &models.Restaurant{}))
	assert.True(t, MeetsMinimumOrder(decimal.NewFromInt(1), &models.Restaurant{MinimumOrder: "n/a"}))
	assert.True(t, MeetsMinimumOrder(decimal.NewFromInt(1), nil))
}
