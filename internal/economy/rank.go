package economy

// DefaultRankThresholds is the cumulative score needed for each rank; index is the rank.
var DefaultRankThresholds = []int64{0, 100, 500, 2000, 8000, 25000, 75000}

// NextRank advances at most one rank when score meets the next threshold.
func NextRank(rank int, score int64, thresholds []int64) (int, bool) {
	next := rank + 1
	if next >= len(thresholds) {
		return rank, false
	}
	if score >= thresholds[next] {
		return next, true
	}
	return rank, false
}
