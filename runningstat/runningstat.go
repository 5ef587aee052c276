package runningstat

import (
	"math"
)

// StatRunner accumulates count, mean, variance and the extrema of a stream
// of samples without keeping the samples.  The zero value is ready to use.
type StatRunner struct {
	n_upd uint64

	/*
	   Running mean and variance are calculated using the algorithm
	   presented in Welford '62.  σsq holds the sum of squared deviations
	   from the current mean, so the population variance is σsq/n.
	*/
	μ, σsq float64

	lo, hi float64
}

func (r *StatRunner) Reset() *StatRunner {
	*r = StatRunner{}
	return r
}

// Update incorporates one sample.  Every call counts, including a sample
// equal to the current mean of an accumulator with zero spread.
func (r *StatRunner) Update(x float64) *StatRunner {
	r.n_upd++
	if r.n_upd == 1 {
		r.μ = x
		r.σsq = 0
		r.lo, r.hi = x, x
		return r
	}
	var lastm = r.μ
	r.μ += (x - lastm) / float64(r.n_upd)
	r.σsq += (x - lastm) * (x - r.μ)
	if r.σsq < 0 {
		r.σsq = 0
	}
	if x < r.lo {
		r.lo = x
	}
	if x > r.hi {
		r.hi = x
	}
	return r
}

// Merge folds the samples summarised by o into r (Chan et al. pairwise
// combination).  o is not modified.
func (r *StatRunner) Merge(o *StatRunner) *StatRunner {
	if o == nil || o.n_upd == 0 {
		return r
	}
	if r.n_upd == 0 {
		*r = *o
		return r
	}
	na, nb := float64(r.n_upd), float64(o.n_upd)
	n := na + nb
	δ := o.μ - r.μ
	r.μ += δ * nb / n
	r.σsq += o.σsq + δ*δ*na*nb/n
	r.n_upd += o.n_upd
	if o.lo < r.lo {
		r.lo = o.lo
	}
	if o.hi > r.hi {
		r.hi = o.hi
	}
	return r
}

func (r *StatRunner) Count() uint64 {
	return r.n_upd
}

func (r *StatRunner) Mean() float64 {
	return r.μ
}

// Variance is the population variance (denominator n).
func (r *StatRunner) Variance() float64 {
	if r.n_upd > 1 {
		return r.σsq / float64(r.n_upd)
	}
	return 0
}

// SampleVariance uses the unbiased n-1 denominator.
func (r *StatRunner) SampleVariance() float64 {
	if r.n_upd > 1 {
		return r.σsq / float64(r.n_upd-1)
	}
	return 0
}

// RMS is the square root of the population variance.
func (r *StatRunner) RMS() float64 {
	return math.Sqrt(r.Variance())
}

func (r *StatRunner) StdDev() float64 {
	return math.Sqrt(r.SampleVariance())
}

// Min reports the smallest sample seen; ok is false before any Update.
func (r *StatRunner) Min() (min float64, ok bool) {
	if r.n_upd == 0 {
		return 0, false
	}
	return r.lo, true
}

// Max reports the largest sample seen; ok is false before any Update.
func (r *StatRunner) Max() (max float64, ok bool) {
	if r.n_upd == 0 {
		return 0, false
	}
	return r.hi, true
}
