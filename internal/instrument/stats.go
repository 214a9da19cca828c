package instrument

import "sort"

// DefaultSeriesCapacity bounds each command's rolling duration history.
const DefaultSeriesCapacity = 100

// DurationSeries is a fixed-capacity FIFO of recorded durations in
// milliseconds, oldest first. Once full, appending evicts the oldest entry.
type DurationSeries struct {
	capacity int
	values   []float64
}

func newDurationSeries(capacity int) *DurationSeries {
	return &DurationSeries{
		capacity: capacity,
		values:   make([]float64, 0, capacity),
	}
}

// Append records a duration in milliseconds.
func (s *DurationSeries) Append(ms float64) {
	if len(s.values) == s.capacity {
		copy(s.values, s.values[1:])
		s.values[len(s.values)-1] = ms
		return
	}
	s.values = append(s.values, ms)
}

// Count returns the number of retained measurements.
func (s *DurationSeries) Count() int {
	return len(s.values)
}

// Values returns the retained measurements in chronological order.
func (s *DurationSeries) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// Mean returns the average of the retained measurements, or 0 when empty.
func (s *DurationSeries) Mean() float64 {
	if len(s.values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s.values {
		sum += v
	}
	return sum / float64(len(s.values))
}

// Max returns the largest retained measurement, or 0 when empty.
func (s *DurationSeries) Max() float64 {
	var max float64
	for _, v := range s.values {
		if v > max {
			max = v
		}
	}
	return max
}

// Store maps command names (case as originally invoked) to their duration
// series. The key count grows with the number of distinct commands in a
// session; each series is capacity-bounded, so memory stays bounded for
// long-running sessions.
type Store struct {
	capacity int
	series   map[string]*DurationSeries
}

// NewStore creates a store whose series hold at most capacity entries.
// A non-positive capacity falls back to DefaultSeriesCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultSeriesCapacity
	}
	return &Store{
		capacity: capacity,
		series:   make(map[string]*DurationSeries),
	}
}

// Observe appends a measurement for the given command.
func (st *Store) Observe(name string, ms float64) {
	series, ok := st.series[name]
	if !ok {
		series = newDurationSeries(st.capacity)
		st.series[name] = series
	}
	series.Append(ms)
}

// Series returns the duration series for a command, or nil when the
// command has never been observed.
func (st *Store) Series(name string) *DurationSeries {
	return st.series[name]
}

// Commands returns all observed command names, sorted.
func (st *Store) Commands() []string {
	names := make([]string, 0, len(st.series))
	for name := range st.series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of distinct observed commands.
func (st *Store) Len() int {
	return len(st.series)
}

// Reset discards all recorded series.
func (st *Store) Reset() {
	st.series = make(map[string]*DurationSeries)
}
