package catalog

import (
	"math/rand"
	"sort"

	"github.com/lineal/kinsim/errors"
)

// Weighted is a table of names with relative frequency weights,
// supporting O(log n) weighted sampling.
//
// Weights are stored as a cumulative sum so a single uniform draw maps to
// an entry via binary search. This keeps memory proportional to the table
// regardless of how skewed the weights are.
type Weighted struct {
	names []string
	cum   []float64
	total float64
}

// Add appends an entry. Negative weights are rejected; zero weights are
// kept but can never be drawn.
func (w *Weighted) Add(name string, weight float64) error {
	if weight < 0 {
		return errors.NewConfigurationError("negative weight %v for %q", weight, name)
	}
	w.total += weight
	w.names = append(w.names, name)
	w.cum = append(w.cum, w.total)
	return nil
}

// Len returns the number of entries.
func (w *Weighted) Len() int {
	return len(w.names)
}

// Sample draws one name with probability proportional to its weight.
func (w *Weighted) Sample(rng *rand.Rand) (string, error) {
	if len(w.names) == 0 || w.total <= 0 {
		return "", errors.Wrap(errors.ErrEmptyTable, "no positive weights to sample")
	}

	x := rng.Float64() * w.total
	// First entry whose cumulative weight strictly exceeds x. Zero-weight
	// entries have cum[i] == cum[i-1] and can never satisfy this.
	i := sort.Search(len(w.cum), func(i int) bool { return w.cum[i] > x })
	if i == len(w.cum) {
		i = len(w.cum) - 1 // x == total is not possible for Float64, but stay in range
	}
	return w.names[i], nil
}
