package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/nexora-storefront/pkg/errors"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseOptionalInt reads an integer parameter, returning None when absent.
func ParseOptionalInt(r *http.Request, key string) (mo.Option[int], error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return mo.None[int](), nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return mo.None[int](), pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	return mo.Some(value), nil
}

// ParseOptionalFloat reads a decimal parameter, returning None when absent.
func ParseOptionalFloat(r *http.Request, key string) (mo.Option[float64], error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return mo.None[float64](), nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return mo.None[float64](), pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	return mo.Some(value), nil
}

// ParseQueryList accepts repeated and comma separated values, dropping blanks and duplicates.
func ParseQueryList(r *http.Request, key string) []string {
	var values []string
	for _, raw := range r.URL.Query()[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	}
	return lo.Uniq(values)
}
