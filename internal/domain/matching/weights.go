package matching

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidWeights = errors.New("invalid weight vector")

// Weights is the per-deployment evaluator weight vector. It must be
// non-negative and sum to exactly 1.0; anything else is rejected at
// configuration load, never silently normalized.
type Weights struct {
	Skills       float64
	Location     float64
	Experience   float64
	Language     float64
	Availability float64
	Preferences  float64
}

func DefaultWeights() Weights {
	return Weights{
		Skills:       0.35,
		Location:     0.20,
		Experience:   0.15,
		Language:     0.15,
		Availability: 0.10,
		Preferences:  0.05,
	}
}

const weightSumTolerance = 1e-9

func (w Weights) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"skills", w.Skills},
		{"location", w.Location},
		{"experience", w.Experience},
		{"language", w.Language},
		{"availability", w.Availability},
		{"preferences", w.Preferences},
	} {
		if f.value < 0 {
			return fmt.Errorf("%w: %s weight is negative (%v)", ErrInvalidWeights, f.name, f.value)
		}
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s weight is not a number", ErrInvalidWeights, f.name)
		}
	}

	sum := w.Skills + w.Location + w.Experience + w.Language + w.Availability + w.Preferences
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: weights sum to %v, want 1.0", ErrInvalidWeights, sum)
	}
	return nil
}
