package roic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesStats(t *testing.T) {
	rows := [][]float64{
		{1, 10},
		{2, 10},
		{3, 10},
		{4, 10},
	}
	mean, std, err := SeriesStats(rows)
	require.NoError(t, err)
	assert.Equal(t, []float64{2.5, 10}, mean)
	// population standard deviation, not the sample one
	assert.InDelta(t, 1.118033988749895, std[0], 1e-12)
	assert.Equal(t, 0.0, std[1])
}

func TestSeriesStatsEdgeCases(t *testing.T) {
	mean, std, err := SeriesStats(nil)
	require.NoError(t, err)
	assert.Nil(t, mean)
	assert.Nil(t, std)

	_, _, err = SeriesStats([][]float64{{1, 2}, {1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{5, 1, 4, 2, 3})
	assert.Equal(t, 3.0, s.Mean)
	assert.Equal(t, 3.0, s.Median)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.InDelta(t, 1.4142135623730951, s.Std, 1e-12)
	assert.LessOrEqual(t, s.P10, s.Median)
	assert.GreaterOrEqual(t, s.P90, s.Median)

	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestSummarizeSmallSample(t *testing.T) {
	s := Summarize([]float64{0.2})
	assert.Equal(t, Summary{Mean: 0.2, Median: 0.2, Min: 0.2, Max: 0.2, P10: 0.2, P90: 0.2}, s)

	s = Summarize([]float64{3, 1})
	assert.Equal(t, 1.0, s.P10)
	assert.Equal(t, 3.0, s.P90)
}
