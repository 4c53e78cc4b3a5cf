package balance

import "testing"

func TestSplitEven(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		n        int
		expected []int64
	}{
		{"exact", 3000, 3, []int64{1000, 1000, 1000}},
		{"remainder to first", 1000, 3, []int64{334, 333, 333}},
		{"two way odd cent", 1001, 2, []int64{501, 500}},
		{"single", 1000, 1, []int64{1000}},
		{"zero participants", 1000, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares := SplitEven(tt.total, tt.n)
			if len(shares) != len(tt.expected) {
				t.Fatalf("got %d shares, want %d", len(shares), len(tt.expected))
			}
			var sum int64
			for i, share := range shares {
				if share != tt.expected[i] {
					t.Errorf("share[%d] = %d, want %d", i, share, tt.expected[i])
				}
				sum += share
			}
			if tt.n > 0 && sum != tt.total {
				t.Errorf("shares sum to %d, want %d", sum, tt.total)
			}
		})
	}
}
