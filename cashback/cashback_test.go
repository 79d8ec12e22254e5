package cashback_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kioskpos-backend/cashback"
	"kioskpos-backend/models"
)

func TestForLine(t *testing.T) {
	type testCase struct {
		name      string
		rule      cashback.Rule
		lineTotal float64
		want      float64
	}

	tests := []testCase{
		{
			name:      "Percentage",
			rule:      cashback.Rule{Type: models.CashbackPercentage, Value: 10},
			lineTotal: 50,
			want:      5,
		},
		{
			name:      "Fixed",
			rule:      cashback.Rule{Type: models.CashbackFixed, Value: 3},
			lineTotal: 50,
			want:      3,
		},
		{
			name:      "BelowMinPurchase",
			rule:      cashback.Rule{Type: models.CashbackPercentage, Value: 10, MinPurchase: 100},
			lineTotal: 50,
			want:      0,
		},
		{
			name:      "AtMinPurchase",
			rule:      cashback.Rule{Type: models.CashbackPercentage, Value: 10, MinPurchase: 50},
			lineTotal: 50,
			want:      5,
		},
		{
			name:      "ZeroValue",
			rule:      cashback.Rule{Type: models.CashbackPercentage},
			lineTotal: 50,
			want:      0,
		},
		{
			name:      "UnknownType",
			rule:      cashback.Rule{Type: "bogus", Value: 10},
			lineTotal: 50,
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, cashback.ForLine(tt.rule, tt.lineTotal), 1e-9)
		})
	}
}

func TestForCart(t *testing.T) {
	items := []models.CartItem{
		{
			// product-level rule wins over the category one
			Name: "Amnesia 1g", CategoryID: "cat1", UnitPrice: 10, Quantity: 2,
			CashbackEnabled: true, CashbackType: models.CashbackPercentage, CashbackValue: 10,
		},
		{
			// falls back to the category rule
			Name: "Grinder", CategoryID: "cat1", UnitPrice: 15, Quantity: 1,
		},
		{
			// no rule anywhere
			Name: "Lighter", CategoryID: "cat2", UnitPrice: 2, Quantity: 1,
		},
	}
	categories := cashback.CategoryRules{
		"cat1": {Type: models.CashbackFixed, Value: 1},
	}

	// 20*10% + 1 fixed + 0
	assert.InDelta(t, 3, cashback.ForCart(items, categories), 1e-9)

	assert.Zero(t, cashback.ForCart(nil, categories))
}
