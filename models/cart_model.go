package models

// CartItemKind distinguishes the cart line shapes: plain products, products
// with a chosen variant option, builder joints and prerolls.
type CartItemKind string

const (
	CartItemSimple  CartItemKind = "simple"
	CartItemVariant CartItemKind = "variant"
	CartItemJoint   CartItemKind = "custom_joint"
	CartItemPreroll CartItemKind = "preroll"
)

// CartItem is held in the kiosk session only; it is never persisted until
// checkout snapshots it into a Transaction.
type CartItem struct {
	Kind          CartItemKind `json:"kind"`
	ProductID     string       `json:"productId,omitempty"` // Mongo hex ID of the product, empty for joints
	POSItemID     string       `json:"posItemId,omitempty"`
	Name          string       `json:"name"`
	VariantName   string       `json:"variantName,omitempty"`
	VariantOption string       `json:"variantOption,omitempty"`
	UnitPrice     float64      `json:"unitPrice"`
	Quantity      int          `json:"quantity"`

	CategoryID          string       `json:"categoryId,omitempty"`
	CashbackEnabled     bool         `json:"cashbackEnabled,omitempty"`
	CashbackType        CashbackType `json:"cashbackType,omitempty"`
	CashbackValue       float64      `json:"cashbackValue,omitempty"`
	CashbackMinPurchase float64      `json:"cashbackMinPurchase,omitempty"`
}

// LineTotal is unit price times quantity.
func (i CartItem) LineTotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// CartSubtotal sums the line totals.
func CartSubtotal(items []CartItem) float64 {
	var sum float64
	for _, i := range items {
		sum += i.LineTotal()
	}
	return sum
}

// CartTotal is the subtotal minus the value of redeemed points. One point is
// worth one currency unit. Redemption never drives the total below zero and
// never exceeds the subtotal.
func CartTotal(items []CartItem, pointsUsed float64) float64 {
	subtotal := CartSubtotal(items)
	if pointsUsed < 0 {
		pointsUsed = 0
	}
	if pointsUsed > subtotal {
		pointsUsed = subtotal
	}
	return subtotal - pointsUsed
}
