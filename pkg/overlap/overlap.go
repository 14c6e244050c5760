// Package overlap spreads margin ports apart along one axis so stub arrows
// sharing a margin never collide.
package overlap

// Item is one port on the margin.
type Item[K comparable] struct {
	ID       K
	Ordinate float64
}

// Resolve returns a copy of items in which consecutive ordinates differ by at
// least gap. items must already be sorted ascending by ordinate.
//
// The sweep only pushes elements down: an element closer than gap to its
// predecessor is moved to predecessor+gap. The order of IDs never changes,
// and resolving an already resolved list returns it unchanged.
func Resolve[K comparable](items []Item[K], gap float64) []Item[K] {
	out := make([]Item[K], len(items))
	copy(out, items)
	if gap <= 0 || len(out) < 2 {
		return out
	}

	for changed := true; changed; {
		changed = false
		for i := 1; i < len(out); i++ {
			if out[i].Ordinate-out[i-1].Ordinate >= gap {
				continue
			}
			// Rounding can make prev+gap land on the current value for huge ordinates
			if next := out[i-1].Ordinate + gap; next > out[i].Ordinate {
				out[i].Ordinate = next
				changed = true
			}
		}
	}
	return out
}

// Ordinates extracts the ordinates of items
func Ordinates[K comparable](items []Item[K]) []float64 {
	out := make([]float64, len(items))
	for i, item := range items {
		out[i] = item.Ordinate
	}
	return out
}
