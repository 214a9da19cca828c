package instrument

import (
	"runtime"
	"sort"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
)

// Thresholds for the insight views, in milliseconds.
const (
	slowestMinAvgMs        = 100
	frequentlySlowMinAvgMs = 500
	frequentlyUsedMinCount = 10
	frequentlyUsedMinAvgMs = 50

	topViewLimit       = 10
	topSuggestionLimit = 5
)

// CommandStat is the aggregate view over one command's duration series.
type CommandStat struct {
	Name  string
	Count int
	Avg   float64
	Max   float64
	Total float64
}

// Reporter is a pure read path over a stats store. It never mutates the
// store and has no side effects beyond producing report data.
type Reporter struct {
	store *Store
}

// NewReporter creates a reporter over the given store.
func NewReporter(store *Store) *Reporter {
	return &Reporter{store: store}
}

// Stats returns aggregates for every observed command, sorted by name.
func (r *Reporter) Stats() []CommandStat {
	return lo.Map(r.store.Commands(), func(name string, _ int) CommandStat {
		series := r.store.Series(name)
		avg := series.Mean()
		count := series.Count()
		return CommandStat{
			Name:  name,
			Count: count,
			Avg:   avg,
			Max:   series.Max(),
			Total: avg * float64(count),
		}
	})
}

// Slowest returns commands averaging above 100ms, slowest first, top 10.
func (r *Reporter) Slowest() []CommandStat {
	stats := lo.Filter(r.Stats(), func(s CommandStat, _ int) bool {
		return s.Avg > slowestMinAvgMs
	})
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Avg > stats[j].Avg
	})
	return limit(stats, topViewLimit)
}

// MostExecuted returns the most frequently run commands, top 10.
func (r *Reporter) MostExecuted() []CommandStat {
	stats := r.Stats()
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})
	return limit(stats, topViewLimit)
}

// FrequentlySlow suggests commands worth optimizing because they are slow
// on average (>500ms) and cost the most total time, top 5.
func (r *Reporter) FrequentlySlow() []CommandStat {
	stats := lo.Filter(r.Stats(), func(s CommandStat, _ int) bool {
		return s.Avg > frequentlySlowMinAvgMs
	})
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Total > stats[j].Total
	})
	return limit(stats, topSuggestionLimit)
}

// FrequentlyUsed suggests commands worth optimizing because they run often
// (count > 10) with a noticeable average (>50ms), most frequent first,
// top 5.
func (r *Reporter) FrequentlyUsed() []CommandStat {
	stats := lo.Filter(r.Stats(), func(s CommandStat, _ int) bool {
		return s.Count > frequentlyUsedMinCount && s.Avg > frequentlyUsedMinAvgMs
	})
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})
	return limit(stats, topSuggestionLimit)
}

// Lookup fuzzy-matches observed command names against the query and
// returns their aggregates, best match first.
func (r *Reporter) Lookup(query string) []CommandStat {
	names := r.store.Commands()
	matches := fuzzy.Find(query, names)
	stats := make([]CommandStat, 0, len(matches))
	for _, match := range matches {
		series := r.store.Series(match.Str)
		avg := series.Mean()
		count := series.Count()
		stats = append(stats, CommandStat{
			Name:  match.Str,
			Count: count,
			Avg:   avg,
			Max:   series.Max(),
			Total: avg * float64(count),
		})
	}
	return stats
}

func limit(stats []CommandStat, n int) []CommandStat {
	if len(stats) > n {
		return stats[:n]
	}
	return stats
}

// MemoryRating classifies the process memory footprint.
type MemoryRating string

const (
	RatingExcellent         MemoryRating = "Excellent"
	RatingGood              MemoryRating = "Good"
	RatingFair              MemoryRating = "Fair"
	RatingNeedsOptimization MemoryRating = "Needs optimization"
)

// Health describes the process memory footprint and its rating.
type Health struct {
	MemoryBytes uint64
	Rating      MemoryRating
}

// CheckHealth samples the runtime's view of memory obtained from the OS.
func CheckHealth() Health {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return Health{
		MemoryBytes: m.Sys,
		Rating:      rateMemory(m.Sys),
	}
}

func rateMemory(bytes uint64) MemoryRating {
	const mb = 1024 * 1024
	switch {
	case bytes < 100*mb:
		return RatingExcellent
	case bytes < 200*mb:
		return RatingGood
	case bytes < 300*mb:
		return RatingFair
	default:
		return RatingNeedsOptimization
	}
}
