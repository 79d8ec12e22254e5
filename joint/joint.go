// Package joint holds the custom joint builder's pricing and validation
// rules. Everything here is pure: the wizard state lives in the kiosk
// session and only a finished, valid config is turned into a cart item.
package joint

import (
	"errors"
	"fmt"
)

type FillingKind string

const (
	FillingWeed    FillingKind = "weed"
	FillingHash    FillingKind = "hash"
	FillingTobacco FillingKind = "tobacco"
)

// TobaccoPerHashGram is the minimum grams of tobacco required per gram of
// hash when the filling contains no weed. Hash does not burn on its own.
const TobaccoPerHashGram = 0.5

type Paper struct {
	Name          string  `json:"name"`
	CapacityGrams float64 `json:"capacityGrams"`
	Price         float64 `json:"price"`
}

type Filter struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type Filling struct {
	Kind         FillingKind `json:"kind"`
	Name         string      `json:"name"`
	Grams        float64     `json:"grams"`
	PricePerGram float64     `json:"pricePerGram"`
}

// External is an add-on applied outside the joint (kief coating, wax line).
type External struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Config is the builder wizard's result: paper, filter, fillings and
// externals picked over the five steps.
type Config struct {
	Paper     *Paper     `json:"paper"`
	Filter    *Filter    `json:"filter"`
	Fillings  []Filling  `json:"fillings"`
	Externals []External `json:"externals"`
}

var (
	ErrNoPaper    = errors.New("no paper selected")
	ErrNoFilter   = errors.New("no filter selected")
	ErrNoFilling  = errors.New("no filling selected")
	ErrBadGrams   = errors.New("filling weight must be positive")
	ErrOverweight = errors.New("total filling exceeds paper capacity")
)

// FillingGrams sums the filling weight.
func (c Config) FillingGrams() float64 {
	var total float64
	for _, f := range c.Fillings {
		total += f.Grams
	}
	return total
}

func (c Config) gramsOf(kind FillingKind) float64 {
	var total float64
	for _, f := range c.Fillings {
		if f.Kind == kind {
			total += f.Grams
		}
	}
	return total
}

// TobaccoRequired reports whether the config needs tobacco to burn: hash
// present with no weed to carry it.
func TobaccoRequired(c Config) bool {
	return c.gramsOf(FillingHash) > 0 && c.gramsOf(FillingWeed) == 0
}

// RequiredTobacco returns the minimum tobacco grams for the config, zero when
// tobacco is not required.
func RequiredTobacco(c Config) float64 {
	if !TobaccoRequired(c) {
		return 0
	}
	return c.gramsOf(FillingHash) * TobaccoPerHashGram
}

// Validate runs the rule table over a finished config and returns every
// violation found.
func Validate(c Config) []error {
	var errs []error

	if c.Paper == nil {
		errs = append(errs, ErrNoPaper)
	}
	if c.Filter == nil {
		errs = append(errs, ErrNoFilter)
	}
	if len(c.Fillings) == 0 {
		errs = append(errs, ErrNoFilling)
	}

	for _, f := range c.Fillings {
		if f.Grams <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s", ErrBadGrams, f.Name))
		}
	}

	if required := RequiredTobacco(c); required > 0 {
		if have := c.gramsOf(FillingTobacco); have < required {
			errs = append(errs, fmt.Errorf("hash-only filling needs at least %.2fg tobacco, got %.2fg", required, have))
		}
	}

	if c.Paper != nil && c.Paper.CapacityGrams > 0 && c.FillingGrams() > c.Paper.CapacityGrams {
		errs = append(errs, fmt.Errorf("%w: %.2fg > %.2fg", ErrOverweight, c.FillingGrams(), c.Paper.CapacityGrams))
	}

	return errs
}

// TotalPrice derives the config price: paper + filter + per-gram fillings +
// externals. The price is never stored on the config, only derived.
func TotalPrice(c Config) float64 {
	var total float64
	if c.Paper != nil {
		total += c.Paper.Price
	}
	if c.Filter != nil {
		total += c.Filter.Price
	}
	for _, f := range c.Fillings {
		total += f.Grams * f.PricePerGram
	}
	for _, e := range c.Externals {
		total += e.Price
	}
	return total
}
