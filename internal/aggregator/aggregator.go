// Package aggregator implements the stateless reducer described in spec
// §4.5: URL normalization, cross-engine deduplication, consensus scoring,
// and the deterministic tie-break ordering that makes two identical runs
// produce byte-identical MergedResult orderings (spec §5).
package aggregator

import (
	"sort"

	"github.com/a3s-lab/a3s-search/internal/types"
)

// EngineResults pairs one engine's weight with its own ranked result list.
type EngineResults struct {
	EngineName string
	Weight     float64
	Results    []types.SearchResult
}

// Aggregate merges per-engine result sets into a single score-sorted
// MergedResult list. Input order of engineResults does not affect output:
// engines are sorted by name before any tie-break resolution (spec §5).
func Aggregate(engineResults []EngineResults) ([]types.MergedResult, error) {
	sorted := make([]EngineResults, len(engineResults))
	copy(sorted, engineResults)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].EngineName < sorted[j].EngineName })

	merged := make(map[string]*types.MergedResult)
	order := make([]string, 0, len(sorted))

	for _, er := range sorted {
		for _, result := range dedupeSameEngine(er.Results) {
			normalized, err := NormalizeURL(result.URL)
			if err != nil {
				continue // an unparseable URL cannot be deduped or scored; drop it
			}

			mr, ok := merged[normalized]
			if !ok {
				mr = &types.MergedResult{
					NormalizedURL: normalized,
					Title:         result.Title,
					Content:       result.Content,
					ResultType:    result.ResultType,
					Thumbnail:     result.Thumbnail,
					PublishedDate: result.PublishedDate,
				}
				merged[normalized] = mr
				order = append(order, normalized)
			}
			if mr.Thumbnail == "" {
				mr.Thumbnail = result.Thumbnail
			}
			if mr.PublishedDate == nil {
				mr.PublishedDate = result.PublishedDate
			}

			mr.Engines = append(mr.Engines, er.EngineName)
			mr.Positions = append(mr.Positions, result.Position)
		}
	}

	weightByEngine := make(map[string]float64, len(sorted))
	for _, er := range sorted {
		weightByEngine[er.EngineName] = er.Weight
	}

	results := make([]types.MergedResult, 0, len(order))
	for _, normalized := range order {
		mr := merged[normalized]
		mr.Score = score(mr.Engines, mr.Positions, weightByEngine)
		results = append(results, *mr)
	}

	sort.Slice(results, func(i, j int) bool {
		return lessByTotalOrder(results[i], results[j])
	})

	return results, nil
}

// dedupeSameEngine implements the spec §9 Open Question's chosen behavior:
// if one engine returns the same normalized URL twice, keep only the first
// (lowest-position) occurrence before the cross-engine merge.
func dedupeSameEngine(results []types.SearchResult) []types.SearchResult {
	seen := make(map[string]bool, len(results))
	out := make([]types.SearchResult, 0, len(results))
	for _, r := range results {
		normalized, err := NormalizeURL(r.URL)
		if err != nil {
			continue
		}
		if seen[normalized] {
			continue
		}
		seen[normalized] = true
		out = append(out, r)
	}
	return out
}

// score implements spec §4.5's consensus formula:
//
//	score = (Σ_{e∈E} w_e / p_e) × |E|
func score(engines []string, positions []int, weightByEngine map[string]float64) float64 {
	var sum float64
	for i, engine := range engines {
		w := weightByEngine[engine]
		if w <= 0 {
			w = 1.0
		}
		sum += w / float64(positions[i])
	}
	return sum * float64(len(engines))
}

// lessByTotalOrder implements spec §4.5's tie-break chain: larger |E|
// first, then smallest positional mean, then lexicographic normalized URL.
func lessByTotalOrder(a, b types.MergedResult) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if len(a.Engines) != len(b.Engines) {
		return len(a.Engines) > len(b.Engines)
	}
	am, bm := positionalMean(a.Positions), positionalMean(b.Positions)
	if am != bm {
		return am < bm
	}
	return a.NormalizedURL < b.NormalizedURL
}

func positionalMean(positions []int) float64 {
	if len(positions) == 0 {
		return 0
	}
	var sum int
	for _, p := range positions {
		sum += p
	}
	return float64(sum) / float64(len(positions))
}
