package calculator

import (
	"errors"
	"fmt"
)

// AverageGrowth returns the mean period-over-period growth of values, which
// must be ordered oldest first.
func AverageGrowth(values []float64) (float64, error) {
	if len(values) < 2 {
		return 0, errors.New("growth: need at least two values")
	}
	sum := 0.0
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			return 0, fmt.Errorf("growth: zero base at index %d", i-1)
		}
		sum += (values[i] - values[i-1]) / values[i-1]
	}
	return sum / float64(len(values)-1), nil
}
