// Package binavg computes pointwise statistics of an ensemble of functions,
// e.g. the mean curve and error band of toy replicas of a fitted shape.
package binavg

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lhcb-b2dsk/timeacc/runningstat"
)

var (
	ErrNotReady     = errors.New("binavg: results requested before Calculate")
	ErrInvalidInput = errors.New("binavg: invalid input")
)

// NotReadyError is returned by the result accessors until Calculate has
// completed successfully.
type NotReadyError struct {
	Op string
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("binavg: %s called before Calculate", e.Op)
}

func (e *NotReadyError) Is(target error) bool {
	return target == ErrNotReady
}

type Func func(x float64) float64

// Sampler yields member k of the ensemble at evaluation point i (whose
// abscissa is x).
type Sampler interface {
	Len() int
	At(k, i int, x float64) float64
}

// Funcs evaluates every function at the requested abscissa.
type Funcs []Func

func (f Funcs) Len() int                       { return len(f) }
func (f Funcs) At(k, _ int, x float64) float64 { return f[k](x) }

// Matrix holds precomputed samples, one row per ensemble member and one
// column per evaluation point.
type Matrix [][]float64

func (m Matrix) Len() int                       { return len(m) }
func (m Matrix) At(k, i int, _ float64) float64 { return m[k][i] }

type Option func(*Averager)

// WithWorkers bounds the number of points evaluated concurrently.  n < 1
// means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(a *Averager) {
		a.workers = n
	}
}

type Averager struct {
	points  []float64
	sampler Sampler
	workers int

	mu       sync.RWMutex
	ready    bool
	avg      []float64
	variance []float64
	rms      []float64
}

func New(points []float64, s Sampler, opts ...Option) *Averager {
	a := &Averager{
		points:  append([]float64(nil), points...),
		sampler: s,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.workers < 1 {
		a.workers = runtime.GOMAXPROCS(0)
	}
	return a
}

func (a *Averager) Points() []float64 {
	return append([]float64(nil), a.points...)
}

func (a *Averager) check() error {
	if a.sampler == nil || a.sampler.Len() == 0 {
		return fmt.Errorf("%w: empty ensemble", ErrInvalidInput)
	}
	for i, x := range a.points {
		if math.IsNaN(x) {
			return fmt.Errorf("%w: evaluation point %d is NaN", ErrInvalidInput, i)
		}
	}
	switch s := a.sampler.(type) {
	case Matrix:
		for k, row := range s {
			if len(row) != len(a.points) {
				return fmt.Errorf("%w: sample row %d has %d entries, want %d",
					ErrInvalidInput, k, len(row), len(a.points))
			}
		}
	case Funcs:
		for k, f := range s {
			if f == nil {
				return fmt.Errorf("%w: ensemble member %d is nil", ErrInvalidInput, k)
			}
		}
	}
	return nil
}

// Calculate accumulates the ensemble at every evaluation point.  Points are
// independent and run concurrently; within a point the members are always
// fed in ensemble order, so the results do not depend on the worker count.
func (a *Averager) Calculate(ctx context.Context) error {
	if err := a.check(); err != nil {
		return err
	}

	n := len(a.points)
	nk := a.sampler.Len()
	avg := make([]float64, n)
	variance := make([]float64, n)
	rms := make([]float64, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var stats runningstat.StatRunner
			x := a.points[i]
			for k := 0; k < nk; k++ {
				stats.Update(a.sampler.At(k, i, x))
			}
			avg[i] = stats.Mean()
			variance[i] = stats.Variance()
			rms[i] = stats.RMS()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	a.mu.Lock()
	a.avg, a.variance, a.rms = avg, variance, rms
	a.ready = true
	a.mu.Unlock()
	return nil
}

func (a *Averager) result(op string, pick func() []float64) ([]float64, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if !a.ready {
		return nil, &NotReadyError{Op: op}
	}
	return append([]float64(nil), pick()...), nil
}

// Mean returns the ensemble mean at each point.
func (a *Averager) Mean() ([]float64, error) {
	return a.result("Mean", func() []float64 { return a.avg })
}

// RMS returns the population standard deviation at each point; this is the
// spread to draw as an error band.
func (a *Averager) RMS() ([]float64, error) {
	return a.result("RMS", func() []float64 { return a.rms })
}

// Variance returns the population variance at each point.
func (a *Averager) Variance() ([]float64, error) {
	return a.result("Variance", func() []float64 { return a.variance })
}

// Band returns mean -/+ nsigma*RMS at each point.
func (a *Averager) Band(nsigma float64) (lo, hi []float64, err error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if !a.ready {
		return nil, nil, &NotReadyError{Op: "Band"}
	}
	lo = make([]float64, len(a.avg))
	hi = make([]float64, len(a.avg))
	for i := range a.avg {
		lo[i] = a.avg[i] - nsigma*a.rms[i]
		hi[i] = a.avg[i] + nsigma*a.rms[i]
	}
	return lo, hi, nil
}
