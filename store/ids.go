package store

import (
	"math/rand"
	"strconv"

	models "product-cart-store/model"
)

// IDAllocator picks the id for a new record given the ids already in use.
type IDAllocator interface {
	Next(existing []models.ID) (models.ID, error)
}

// Sequential allocates integer ids: collection length + 1, or one past the
// highest integer id when deletions have left a gap, so an id is never
// handed out twice. All-digit string ids ("2") count as integers, since a
// loose lookup cannot tell them apart from the numeric form.
type Sequential struct{}

func (Sequential) Next(existing []models.ID) (models.ID, error) {
	next := int64(len(existing)) + 1
	for _, id := range existing {
		if n, ok := models.ParseID(id.String()).Int64(); ok && n >= next {
			next = n + 1
		}
	}
	return models.IntID(next), nil
}

const (
	defaultRandomSpace    = 1_000_000
	defaultRandomAttempts = 4 * defaultRandomSpace
)

// RandomString draws integers in [0, Space), formats them as string ids and
// redraws until the id is unused.
type RandomString struct {
	Space       int
	MaxAttempts int
	// IntN defaults to math/rand/v2's IntN. Tests replace it.
	IntN func(n int) int
}

// NewRandomString returns an allocator over [0, 1000000).
func NewRandomString() *RandomString {
	return &RandomString{
		Space:       defaultRandomSpace,
		MaxAttempts: defaultRandomAttempts,
		IntN:        rand.Intn,
	}
}

func (r *RandomString) Next(existing []models.ID) (models.ID, error) {
	taken := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		if !id.Numeric() {
			taken[id.String()] = struct{}{}
		}
	}
	if len(taken) >= r.Space {
		return models.ID{}, ErrIDSpaceExhausted
	}

	for attempt := 0; attempt < r.MaxAttempts; attempt++ {
		candidate := strconv.Itoa(r.IntN(r.Space))
		if _, dup := taken[candidate]; !dup {
			return models.StringID(candidate), nil
		}
	}
	return models.ID{}, ErrIDSpaceExhausted
}
