package balance

// SplitEven divides totalCents into n shares that sum exactly to the total.
// Remainder cents go to the first shares, so the split is deterministic.
func SplitEven(totalCents int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	base := totalCents / int64(n)
	remainder := totalCents % int64(n)

	shares := make([]int64, n)
	for i := range shares {
		shares[i] = base
		if int64(i) < remainder {
			shares[i]++
		}
	}
	return shares
}
