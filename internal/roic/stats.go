package roic

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// SeriesStats reduces equal-length rows to per-column mean and population
// standard deviation.
func SeriesStats(rows [][]float64) (mean, std []float64, err error) {
	if len(rows) == 0 {
		return nil, nil, nil
	}
	n := len(rows[0])
	mean = make([]float64, n)
	std = make([]float64, n)
	col := make(stats.Float64Data, len(rows))
	for j := 0; j < n; j++ {
		for i, row := range rows {
			if len(row) != n {
				return nil, nil, fmt.Errorf("row %d has %d values, want %d", i, len(row), n)
			}
			col[i] = row[j]
		}
		if mean[j], err = stats.Mean(col); err != nil {
			return nil, nil, err
		}
		if std[j], err = stats.StandardDeviationPopulation(col); err != nil {
			return nil, nil, err
		}
	}
	return mean, std, nil
}

// Summarize computes mean/median/population std/min/max and the 10th and
// 90th percentiles (nearest rank). An empty sample yields the zero Summary.
func Summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	data := stats.Float64Data(xs)
	var s Summary
	s.Mean, _ = data.Mean()
	s.Median, _ = data.Median()
	s.Std, _ = data.StandardDeviationPopulation()
	s.Min, _ = data.Min()
	s.Max, _ = data.Max()
	s.P10, _ = data.PercentileNearestRank(10)
	s.P90, _ = data.PercentileNearestRank(90)
	return s
}
