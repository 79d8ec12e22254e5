package joint_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kioskpos-backend/joint"
)

func validConfig() joint.Config {
	return joint.Config{
		Paper:  &joint.Paper{Name: "King Size", CapacityGrams: 1.5, Price: 0.5},
		Filter: &joint.Filter{Name: "Carbon", Price: 0.3},
		Fillings: []joint.Filling{
			{Kind: joint.FillingWeed, Name: "Amnesia", Grams: 1.0, PricePerGram: 10},
		},
	}
}

func TestValidate(t *testing.T) {
	type testCase struct {
		name    string
		mutate  func(*joint.Config)
		wantErr error
	}

	tests := []testCase{
		{
			name:   "Valid",
			mutate: func(c *joint.Config) {},
		},
		{
			name:    "MissingPaper",
			mutate:  func(c *joint.Config) { c.Paper = nil },
			wantErr: joint.ErrNoPaper,
		},
		{
			name:    "MissingFilter",
			mutate:  func(c *joint.Config) { c.Filter = nil },
			wantErr: joint.ErrNoFilter,
		},
		{
			name:    "NoFillings",
			mutate:  func(c *joint.Config) { c.Fillings = nil },
			wantErr: joint.ErrNoFilling,
		},
		{
			name: "ZeroGrams",
			mutate: func(c *joint.Config) {
				c.Fillings[0].Grams = 0
			},
			wantErr: joint.ErrBadGrams,
		},
		{
			name: "Overweight",
			mutate: func(c *joint.Config) {
				c.Fillings[0].Grams = 2.0
			},
			wantErr: joint.ErrOverweight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			errs := joint.Validate(cfg)

			if tt.wantErr == nil {
				assert.Empty(t, errs)
				return
			}

			require.NotEmpty(t, errs)
			found := false
			for _, err := range errs {
				if errors.Is(err, tt.wantErr) {
					found = true
				}
			}
			assert.True(t, found, "expected %v in %v", tt.wantErr, errs)
		})
	}
}

func TestTobaccoRule(t *testing.T) {
	cfg := joint.Config{
		Paper:  &joint.Paper{Name: "King Size", CapacityGrams: 2.0, Price: 0.5},
		Filter: &joint.Filter{Name: "Paper tip", Price: 0.1},
		Fillings: []joint.Filling{
			{Kind: joint.FillingHash, Name: "Moroccan", Grams: 1.0, PricePerGram: 12},
		},
	}

	assert.True(t, joint.TobaccoRequired(cfg))
	assert.InDelta(t, 0.5, joint.RequiredTobacco(cfg), 1e-9)

	// Too little tobacco still fails.
	cfg.Fillings = append(cfg.Fillings, joint.Filling{
		Kind: joint.FillingTobacco, Name: "Virginia", Grams: 0.2, PricePerGram: 1,
	})
	assert.NotEmpty(t, joint.Validate(cfg))

	// Meeting the ratio passes.
	cfg.Fillings[1].Grams = 0.5
	assert.Empty(t, joint.Validate(cfg))

	// Adding weed lifts the requirement entirely.
	cfg.Fillings = []joint.Filling{
		{Kind: joint.FillingHash, Name: "Moroccan", Grams: 0.5, PricePerGram: 12},
		{Kind: joint.FillingWeed, Name: "Amnesia", Grams: 0.5, PricePerGram: 10},
	}
	assert.False(t, joint.TobaccoRequired(cfg))
	assert.Zero(t, joint.RequiredTobacco(cfg))
}

func TestTotalPrice(t *testing.T) {
	cfg := validConfig()
	cfg.Externals = []joint.External{{Name: "Kief coating", Price: 2}}

	// 0.5 paper + 0.3 filter + 1.0g * 10 + 2 external
	assert.InDelta(t, 12.8, joint.TotalPrice(cfg), 1e-9)

	assert.Zero(t, joint.TotalPrice(joint.Config{}))
}
