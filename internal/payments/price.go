package payments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/stayvista/backend/internal/models"
)

// leadingNumber matches the numeric prefix of a string the way browsers' parseFloat reads it.
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParsePrice reads a price sent as a JSON number or string.
func ParsePrice(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("%w: price is required", models.ErrValidation)
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("%w: invalid price", models.ErrValidation)
		}
		m := leadingNumber.FindString(strings.TrimSpace(s))
		if m == "" {
			return 0, fmt.Errorf("%w: invalid price %q", models.ErrValidation, s)
		}
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid price %q", models.ErrValidation, s)
		}
		return v, nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("%w: invalid price", models.ErrValidation)
	}
	return v, nil
}

// MinorUnits converts a price to whole cents, truncating. Prices under one cent are rejected.
func MinorUnits(price float64) (int64, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("%w: invalid price", models.ErrValidation)
	}
	cents := math.Trunc(price * 100)
	if cents < 1 {
		return 0, fmt.Errorf("%w: price must be at least 0.01", models.ErrValidation)
	}
	if cents > 1e15 {
		return 0, fmt.Errorf("%w: price too large", models.ErrValidation)
	}
	return int64(cents), nil
}
