package instrument

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationSeries_AppendBelowCapacity(t *testing.T) {
	s := newDurationSeries(5)
	s.Append(10)
	s.Append(20)
	s.Append(30)

	assert.Equal(t, 3, s.Count())
	assert.Equal(t, []float64{10, 20, 30}, s.Values())
}

func TestDurationSeries_EvictsOldestWhenFull(t *testing.T) {
	s := newDurationSeries(3)
	s.Append(1)
	s.Append(2)
	s.Append(3)
	s.Append(4)
	s.Append(5)

	// Capacity is never exceeded and retained values stay chronological
	assert.Equal(t, 3, s.Count())
	assert.Equal(t, []float64{3, 4, 5}, s.Values())
}

func TestDurationSeries_RetainsLastHundredOfMany(t *testing.T) {
	s := newDurationSeries(DefaultSeriesCapacity)
	for i := 1; i <= 150; i++ {
		s.Append(float64(i))
	}

	require.Equal(t, DefaultSeriesCapacity, s.Count())
	values := s.Values()
	assert.Equal(t, float64(51), values[0])
	assert.Equal(t, float64(150), values[len(values)-1])
}

func TestDurationSeries_MeanAndMax(t *testing.T) {
	s := newDurationSeries(10)

	// Empty series reports zero
	assert.Equal(t, 0.0, s.Mean())
	assert.Equal(t, 0.0, s.Max())

	s.Append(50)
	s.Append(2000)
	s.Append(150)

	assert.InDelta(t, 733.33, s.Mean(), 0.01)
	assert.Equal(t, 2000.0, s.Max())
}

func TestDurationSeries_ValuesReturnsCopy(t *testing.T) {
	s := newDurationSeries(5)
	s.Append(1)

	values := s.Values()
	values[0] = 999

	assert.Equal(t, []float64{1}, s.Values())
}

func TestStore_ObserveAndSeries(t *testing.T) {
	st := NewStore(10)
	st.Observe("git", 50)
	st.Observe("git", 150)
	st.Observe("ls", 5)

	require.NotNil(t, st.Series("git"))
	assert.Equal(t, 2, st.Series("git").Count())
	assert.Equal(t, 1, st.Series("ls").Count())
	assert.Nil(t, st.Series("curl"))
	assert.Equal(t, 2, st.Len())
}

func TestStore_CommandsSorted(t *testing.T) {
	st := NewStore(10)
	st.Observe("ls", 1)
	st.Observe("git", 1)
	st.Observe("curl", 1)

	assert.Equal(t, []string{"curl", "git", "ls"}, st.Commands())
}

func TestStore_NonPositiveCapacityFallsBack(t *testing.T) {
	st := NewStore(0)
	for i := 0; i < DefaultSeriesCapacity+10; i++ {
		st.Observe("git", float64(i))
	}

	assert.Equal(t, DefaultSeriesCapacity, st.Series("git").Count())
}

func TestStore_Reset(t *testing.T) {
	st := NewStore(10)
	st.Observe("git", 50)
	st.Observe("ls", 5)

	st.Reset()

	assert.Equal(t, 0, st.Len())
	assert.Nil(t, st.Series("git"))
}
