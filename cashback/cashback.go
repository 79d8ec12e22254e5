// Package cashback computes loyalty points for a cart. Rules live on the
// product document or, as a fallback, on the product's category; the engine
// itself is a pure function over cart line items.
package cashback

import "kioskpos-backend/models"

// Rule is a cashback rule resolved for one cart line.
type Rule struct {
	Type        models.CashbackType
	Value       float64
	MinPurchase float64
}

// CategoryRules maps category hex IDs to their fallback rule.
type CategoryRules map[string]Rule

// ForLine computes the points for a single line. A zero rule or an unmet
// minimum purchase yields nothing.
func ForLine(rule Rule, lineTotal float64) float64 {
	if rule.Value <= 0 || lineTotal <= 0 {
		return 0
	}
	if rule.MinPurchase > 0 && lineTotal < rule.MinPurchase {
		return 0
	}
	switch rule.Type {
	case models.CashbackPercentage:
		return lineTotal * rule.Value / 100
	case models.CashbackFixed:
		return rule.Value
	}
	return 0
}

// ForCart computes the total points earned by a cart. A product-level rule
// wins over the category fallback; lines with neither earn nothing.
func ForCart(items []models.CartItem, categories CategoryRules) float64 {
	var total float64
	for _, item := range items {
		rule, ok := resolve(item, categories)
		if !ok {
			continue
		}
		total += ForLine(rule, item.LineTotal())
	}
	return total
}

func resolve(item models.CartItem, categories CategoryRules) (Rule, bool) {
	if item.CashbackEnabled {
		return Rule{
			Type:        item.CashbackType,
			Value:       item.CashbackValue,
			MinPurchase: item.CashbackMinPurchase,
		}, true
	}
	if rule, ok := categories[item.CategoryID]; ok {
		return rule, true
	}
	return Rule{}, false
}
