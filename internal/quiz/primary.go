package quiz

import (
	"encoding/json"
	"fmt"
	"slices"
)

const mixedPrimary = "mixed"

// primaryTolerance is how close (in score points) a category must be to the
// maximum to count as tied for primary.
const primaryTolerance = 0.5

// Primary is the display-facing winner of a categorical dimension: a single
// category, a tied set of 2-4 categories, or "mixed". It is derived from the
// scores and never feeds classification.
type Primary[C ~string] struct {
	Mixed bool
	Top   []C
}

// Single returns the sole top category, if there is exactly one.
func (p Primary[C]) Single() (C, bool) {
	if p.Mixed || len(p.Top) != 1 {
		var zero C
		return zero, false
	}
	return p.Top[0], true
}

func (p Primary[C]) String() string {
	if p.Mixed {
		return mixedPrimary
	}
	return fmt.Sprint(p.Top)
}

func (p Primary[C]) MarshalJSON() ([]byte, error) {
	switch {
	case p.Mixed:
		return json.Marshal(mixedPrimary)
	case len(p.Top) == 1:
		return json.Marshal(p.Top[0])
	default:
		return json.Marshal(p.Top)
	}
}

func (p *Primary[C]) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s == mixedPrimary {
			*p = Primary[C]{Mixed: true}
			return nil
		}
		*p = Primary[C]{Top: []C{C(s)}}
		return nil
	}
	var top []C
	if err := json.Unmarshal(b, &top); err != nil {
		return fmt.Errorf("primary must be a category, a list of categories or %q", mixedPrimary)
	}
	*p = Primary[C]{Top: top}
	return nil
}

// validIn reports whether p has an accepted shape for the given categories.
func (p Primary[C]) validIn(allowed []C) bool {
	if p.Mixed {
		return len(p.Top) == 0
	}
	if len(p.Top) == 0 || len(p.Top) > len(allowed) {
		return false
	}
	for _, c := range p.Top {
		if !slices.Contains(allowed, c) {
			return false
		}
	}
	return true
}

// derivePrimary picks the categories within primaryTolerance of the maximum.
func derivePrimary[C ~string](order []C, score func(C) float64) Primary[C] {
	best := score(order[0])
	for _, c := range order[1:] {
		best = max(best, score(c))
	}

	var top []C
	for _, c := range order {
		if best-score(c) <= primaryTolerance {
			top = append(top, c)
		}
	}
	if len(top) == len(order) {
		return Primary[C]{Mixed: true}
	}
	return Primary[C]{Top: top}
}
