package services

import (
	"os"

	"github.com/shopspring/decimal"

	"github.com/aymen12m12-coder/sareeone1/models"
	"github.com/aymen12m12-coder/sareeone1/utils"
)

// Drivers receive 70% of the delivery fee; the platform keeps the rest.
var driverCommissionRate = decimal.NewFromFloat(0.7)

// BaseDeliveryFee is the flat fee applied when a restaurant has no fee of
// its own. Overridable through DELIVERY_BASE_FEE.
func BaseDeliveryFee() decimal.Decimal {
	if v := os.Getenv("DELIVERY_BASE_FEE"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil && !d.IsNegative() {
			return d
		}
	}
	return decimal.NewFromInt(5)
}

// ResolveDeliveryFee picks the restaurant's own fee when it parses to a
// valid non-negative amount, otherwise the platform base fee. Orders with
// no items ship nothing and pay no fee.
func ResolveDeliveryFee(restaurant *models.Restaurant, itemCount int) decimal.Decimal {
	if itemCount <= 0 {
		return decimal.Zero
	}
	if restaurant != nil && restaurant.DeliveryFee != "" {
		if fee, err := decimal.NewFromString(restaurant.DeliveryFee); err == nil && !fee.IsNegative() {
			return fee
		}
	}
	return BaseDeliveryFee()
}

// ComputeTotal is subtotal + fee - discount, floored at zero. Inputs are
// wire strings and parse defensively (invalid -> 0).
func ComputeTotal(subtotal, deliveryFee, discount string) decimal.Decimal {
	total := utils.ParseDecimal(subtotal).
		Add(utils.ParseDecimal(deliveryFee)).
		Sub(utils.ParseDecimal(discount))
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// ComputeDriverEarnings is the driver's 70% cut of the delivery fee,
// rounded half-up to the nearest whole unit.
func ComputeDriverEarnings(deliveryFee decimal.Decimal) decimal.Decimal {
	return deliveryFee.Mul(driverCommissionRate).Round(0)
}

// ComputeSubtotal sums price*quantity over the order items.
func ComputeSubtotal(items []models.OrderItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		subtotal = subtotal.Add(utils.ParseDecimal(item.Price).Mul(qty))
	}
	return subtotal
}

// MeetsMinimumOrder reports whether the subtotal satisfies the restaurant's
// minimum. No minimum (absent or unparsable) always passes.
func MeetsMinimumOrder(subtotal decimal.Decimal, restaurant *models.Restaurant) bool {
	if restaurant == nil || restaurant.MinimumOrder == "" {
		return true
	}
	minimum, err := decimal.NewFromString(restaurant.MinimumOrder)
	if err != nil {
		return true
	}
	return subtotal.GreaterThanOrEqual(minimum)
}
