package enums

import "fmt"

// ShoppingMode narrows the home page product grid.
type ShoppingMode string

const (
	ShoppingModeAll     ShoppingMode = "all"
	ShoppingModeDeal    ShoppingMode = "deal"
	ShoppingModePremium ShoppingMode = "premium"
	ShoppingModeFast    ShoppingMode = "fast"
	ShoppingModeNight   ShoppingMode = "night"
)

var validShoppingModes = []ShoppingMode{
	ShoppingModeAll,
	ShoppingModeDeal,
	ShoppingModePremium,
	ShoppingModeFast,
	ShoppingModeNight,
}

// String implements fmt.Stringer.
func (m ShoppingMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known ShoppingMode.
func (m ShoppingMode) IsValid() bool {
	for _, candidate := range validShoppingModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseShoppingMode converts raw input into a ShoppingMode.
func ParseShoppingMode(value string) (ShoppingMode, error) {
	for _, candidate := range validShoppingModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shopping mode %q", value)
}
