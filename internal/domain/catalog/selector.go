package catalog

import (
	"fmt"
	"math/rand"
	"strings"
)

// DefaultSeed is the fixed seed used for the selection draw. The selector
// re-seeds its own generator with this constant immediately before every
// draw, so repeated calls against the same catalog ordering always return
// the identical subset. Determinism here is a contract, not an accident.
const DefaultSeed = 42

// Selector deterministically picks which catalog items apply to one visit
// in a given department. It owns a dedicated generator; nothing else in the
// process shares its randomness.
type Selector struct {
	source Source
	seed   int64
}

func NewSelector(source Source, seed int64) *Selector {
	return &Selector{source: source, seed: seed}
}

// Select filters the catalog to the department (case-insensitive, trimmed)
// and draws a fixed subset without replacement. With one candidate the
// draw size is 1; otherwise it is uniform in [min(2,n), min(3,n)].
func (s *Selector) Select(department string) (*Selection, error) {
	entries, err := s.source.Load()
	if err != nil {
		return nil, err
	}

	// Filter first, parse second: a malformed fee in another department
	// must not break this one.
	want := strings.ToLower(strings.TrimSpace(department))
	var matched []Item
	for _, e := range entries {
		if strings.ToLower(e.Department) != want {
			continue
		}
		it, err := parseFee(e)
		if err != nil {
			return nil, err
		}
		matched = append(matched, it)
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoItems, department)
	}

	n := len(matched)
	r := rand.New(rand.NewSource(s.seed))
	k := 1
	if n > 1 {
		lo, hi := min(2, n), min(3, n)
		k = lo + r.Intn(hi-lo+1)
	}

	// Fresh seed again right before the draw itself. The reseed is part of
	// the contract: the same department must always yield the same items.
	r = rand.New(rand.NewSource(s.seed))
	pool := make([]Item, n)
	copy(pool, matched)
	sel := &Selection{Items: make([]Item, 0, k)}
	for i := 0; i < k; i++ {
		j := r.Intn(len(pool))
		it := pool[j]
		pool = append(pool[:j], pool[j+1:]...)
		sel.Items = append(sel.Items, it)
		sel.TotalFee += it.Fee
	}
	return sel, nil
}
