package diagnostics

import "gonum.org/v1/gonum/stat"

// Summary holds the mean and standard deviation of a recorded tick-stat
// column, used by content-pack regression tests to assert "settles
// within N ticks" style invariants without hardcoding thresholds, and by
// `cmd/tune`'s Nelder-Mead search to score a candidate pack against a
// target statistic.
type Summary struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	N      int
}

// Summarize computes Summary statistics over a series of observations
// (e.g. LiveCells or ThermalPassMicros sampled across a replay run).
// Returns the zero Summary for an empty series.
func Summarize(series []float64) Summary {
	if len(series) == 0 {
		return Summary{}
	}
	mean, stdDev := stat.MeanStdDev(series, nil)
	lo, hi := series[0], series[0]
	for _, v := range series[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return Summary{Mean: mean, StdDev: stdDev, Min: lo, Max: hi, N: len(series)}
}

// LiveCellSeries extracts the LiveCells column from a slice of TickStat
// rows, in tick order, as a plain []float64 for Summarize or a gonum
// optimizer's fitness function.
func LiveCellSeries(stats []TickStat) []float64 {
	series := make([]float64, len(stats))
	for i, s := range stats {
		series[i] = float64(s.LiveCells)
	}
	return series
}
