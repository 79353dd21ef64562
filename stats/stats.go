// Package stats accumulates streaming summaries of benchmark samples:
// node throughput across runs, solve times across suite positions.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Running tracks a sample stream by Welford's method, which keeps the
// variance numerically stable however long the run gets.
type Running struct {
	n    int
	last float64
	mean float64
	m2   float64
	min  float64
	max  float64
}

// Push adds one sample.
func (r *Running) Push(v float64) {
	r.last = v
	r.n++
	if r.n == 1 {
		r.mean, r.min, r.max = v, v, v
		return
	}
	d := v - r.mean
	r.mean += d / float64(r.n)
	r.m2 += d * (v - r.mean)
	if v < r.min {
		r.min = v
	}
	if v > r.max {
		r.max = v
	}
}

// Count returns the number of samples pushed.
func (r *Running) Count() int { return r.n }

// Last returns the most recent sample.
func (r *Running) Last() float64 { return r.last }

// Mean returns the running mean, zero before the first sample.
func (r *Running) Mean() float64 { return r.mean }

// Min returns the smallest sample seen.
func (r *Running) Min() float64 { return r.min }

// Max returns the largest sample seen.
func (r *Running) Max() float64 { return r.max }

// Variance returns the sample variance (n-1 denominator).
func (r *Running) Variance() float64 {
	if r.n <= 1 {
		return 0
	}
	return r.m2 / float64(r.n-1)
}

// Stdev returns the sample standard deviation.
func (r *Running) Stdev() float64 { return math.Sqrt(r.Variance()) }

// StandardError returns the standard error of the mean.
func (r *Running) StandardError() float64 {
	if r.n == 0 {
		return 0
	}
	return math.Sqrt(r.Variance() / float64(r.n))
}

// ConfidenceInterval brackets the mean at the given two-tailed
// confidence level in percent.
func (r *Running) ConfidenceInterval(level float64) (low, high float64) {
	d := ZVal(level) * r.StandardError()
	return r.mean - d, r.mean + d
}

// ZVal returns the two-tailed z-value for a confidence level given in
// percent, e.g. 95 for a 95% interval.
func ZVal(level float64) float64 {
	dist := distuv.Normal{Mu: 0, Sigma: 1}
	return dist.Quantile((1 + level/100) / 2)
}
