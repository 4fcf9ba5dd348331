package wfc

import (
	"fmt"
	"math"
)

// Metric maps a relative cell offset to a non-negative integer distance.
// The metric shapes the neighborhood: Chebyshev gives squares, Manhattan
// diamonds, Euclidean discs.
type Metric int

const (
	Chebyshev Metric = iota // max(|dx|, |dy|)
	Manhattan               // |dx| + |dy|
	Euclidean               // trunc(sqrt(dx^2 + dy^2))
)

// Distance returns the metric distance for the offset (dx, dy).
func (m Metric) Distance(dx, dy int) int {
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	switch m {
	case Manhattan:
		return dx + dy
	case Euclidean:
		return int(math.Sqrt(float64(dx*dx + dy*dy)))
	default:
		return maxInt(dx, dy)
	}
}

// String returns the string representation of a Metric.
func (m Metric) String() string {
	switch m {
	case Chebyshev:
		return "chebyshev"
	case Manhattan:
		return "manhattan"
	case Euclidean:
		return "euclidean"
	default:
		return "unknown"
	}
}

// ParseMetric converts a metric name to a Metric.
func ParseMetric(name string) (Metric, error) {
	switch name {
	case "chebyshev", "":
		return Chebyshev, nil
	case "manhattan":
		return Manhattan, nil
	case "euclidean":
		return Euclidean, nil
	default:
		return Chebyshev, fmt.Errorf("unknown metric %q", name)
	}
}
