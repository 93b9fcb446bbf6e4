package enums

import "fmt"

// Theme is the persisted colour scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DefaultTheme applies when nothing valid is stored.
const DefaultTheme = ThemeLight

// String implements fmt.Stringer.
func (t Theme) String() string {
	return string(t)
}

// IsValid reports whether the value is a known Theme.
func (t Theme) IsValid() bool {
	return t == ThemeLight || t == ThemeDark
}

// ParseTheme converts raw input into a Theme.
func ParseTheme(value string) (Theme, error) {
	theme := Theme(value)
	if !theme.IsValid() {
		return "", fmt.Errorf("invalid theme %q", value)
	}
	return theme, nil
}
