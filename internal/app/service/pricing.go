package service

// Shipping is a flat fee waived once the merchandise subtotal reaches the
// free-shipping threshold. Cart previews and order creation must agree on
// these numbers.
const (
	FlatShippingFee       = 10.00
	FreeShippingThreshold = 75.00
)

// CalculateShipping returns the shipping fee for a merchandise subtotal.
func CalculateShipping(subtotal float64) float64 {
	if subtotal >= FreeShippingThreshold {
		return 0
	}
	return FlatShippingFee
}
