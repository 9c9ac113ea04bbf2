package store

import (
	"strconv"

	models "product-cart-store/model"
)

// Matcher decides whether a stored id equals a requested one.
type Matcher func(stored, requested models.ID) bool

// StrictMatch requires the same representation: both numeric or both
// strings, with identical text.
func StrictMatch(stored, requested models.ID) bool {
	return stored.Numeric() == requested.Numeric() && stored.String() == requested.String()
}

// LooseMatch treats numeric and string forms of the same number as equal,
// so 1, "1" and "1.0" all match.
func LooseMatch(stored, requested models.ID) bool {
	if stored.String() == requested.String() {
		return !stored.IsZero()
	}
	a, err := strconv.ParseFloat(stored.String(), 64)
	if err != nil {
		return false
	}
	b, err := strconv.ParseFloat(requested.String(), 64)
	if err != nil {
		return false
	}
	return a == b
}
