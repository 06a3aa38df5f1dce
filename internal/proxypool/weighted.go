package proxypool

import "math/rand"

// aliasTable implements Vose's alias method for O(1) weighted sampling,
// adapted from the traffic generator's task.Selector (the weighted-pick
// problem is identical: choose one of N entries with probability
// proportional to a per-entry weight, in O(1) per draw after an O(n)
// build).
type aliasTable struct {
	alias []int
	prob  []float64
}

// buildAliasTable constructs the table from a positive weight list. Returns
// nil if weights is empty or every weight is non-positive.
func buildAliasTable(weights []int) *aliasTable {
	n := len(weights)
	if n == 0 {
		return nil
	}

	total := 0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return nil
	}

	prob := make([]float64, n)
	alias := make([]int, n)
	scaled := make([]float64, n)
	for i, w := range weights {
		scaled[i] = float64(w) * float64(n) / float64(total)
	}

	small := make([]int, 0, n)
	large := make([]int, 0, n)
	for i, p := range scaled {
		if p < 1.0 {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}

	for len(small) > 0 && len(large) > 0 {
		l := small[len(small)-1]
		small = small[:len(small)-1]
		g := large[len(large)-1]
		large = large[:len(large)-1]

		prob[l] = scaled[l]
		alias[l] = g
		scaled[g] = (scaled[g] + scaled[l]) - 1.0

		if scaled[g] < 1.0 {
			small = append(small, g)
		} else {
			large = append(large, g)
		}
	}
	for _, g := range large {
		prob[g] = 1.0
	}
	for _, l := range small {
		prob[l] = 1.0
	}

	return &aliasTable{alias: alias, prob: prob}
}

// pick draws an index with probability proportional to the weight it was
// built from.
func (t *aliasTable) pick() int {
	i := rand.Intn(len(t.prob))     //nolint:gosec
	if rand.Float64() < t.prob[i] { //nolint:gosec
		return i
	}
	return t.alias[i]
}
