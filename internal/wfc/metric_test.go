package wfc

import "testing"

func TestMetricDistance(t *testing.T) {
	tests := []struct {
		metric Metric
		dx, dy int
		want   int
	}{
		{Chebyshev, 0, 0, 0},
		{Chebyshev, 3, 1, 3},
		{Chebyshev, -3, 1, 3},
		{Chebyshev, 2, -5, 5},
		{Manhattan, 3, 1, 4},
		{Manhattan, -3, -1, 4},
		{Manhattan, 0, 2, 2},
		{Euclidean, 3, 4, 5},
		{Euclidean, 1, 1, 1},
		{Euclidean, -2, 0, 2},
	}

	for _, tc := range tests {
		if got := tc.metric.Distance(tc.dx, tc.dy); got != tc.want {
			t.Errorf("%s.Distance(%d, %d) = %d, want %d", tc.metric, tc.dx, tc.dy, got, tc.want)
		}
	}
}

func TestParseMetric(t *testing.T) {
	tests := []struct {
		name    string
		want    Metric
		wantErr bool
	}{
		{"chebyshev", Chebyshev, false},
		{"manhattan", Manhattan, false},
		{"euclidean", Euclidean, false},
		{"", Chebyshev, false},
		{"taxicab", Chebyshev, true},
	}

	for _, tc := range tests {
		got, err := ParseMetric(tc.name)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseMetric(%q) did not fail", tc.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMetric(%q) failed: %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseMetric(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
