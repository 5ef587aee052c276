package binavg

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linspace(lo, hi float64, n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return xs
}

func TestAverageOfLines(t *testing.T) {
	// f_k(x) = k*x for k = 0..4: mean 2x, population variance 2x^2
	var fs Funcs
	for k := 0; k < 5; k++ {
		k := float64(k)
		fs = append(fs, func(x float64) float64 { return k * x })
	}
	points := []float64{0, 1, 2.5, -3}

	a := New(points, fs)
	require.NoError(t, a.Calculate(context.Background()))

	mean, err := a.Mean()
	require.NoError(t, err)
	variance, err := a.Variance()
	require.NoError(t, err)
	rms, err := a.RMS()
	require.NoError(t, err)

	for i, x := range points {
		assert.InDelta(t, 2*x, mean[i], 1e-12)
		assert.InDelta(t, 2*x*x, variance[i], 1e-9)
		assert.InDelta(t, math.Sqrt2*math.Abs(x), rms[i], 1e-9)
	}

	lo, hi, err := a.Band(1)
	require.NoError(t, err)
	for i := range points {
		assert.InDelta(t, mean[i]-rms[i], lo[i], 1e-12)
		assert.InDelta(t, mean[i]+rms[i], hi[i], 1e-12)
	}
}

func TestMatrixSampler(t *testing.T) {
	m := Matrix{
		{1, 10, 0},
		{3, 10, 0},
		{5, 10, 3},
	}
	a := New([]float64{0, 1, 2}, m, WithWorkers(1))
	require.NoError(t, a.Calculate(context.Background()))

	mean, _ := a.Mean()
	variance, _ := a.Variance()
	assert.InDeltaSlice(t, []float64{3, 10, 1}, mean, 1e-12)
	assert.InDeltaSlice(t, []float64{8.0 / 3.0, 0, 2}, variance, 1e-12)
}

func TestNotReady(t *testing.T) {
	a := New([]float64{1}, Matrix{{1}})

	_, err := a.Mean()
	assert.True(t, errors.Is(err, ErrNotReady))
	_, err = a.RMS()
	assert.True(t, errors.Is(err, ErrNotReady))
	_, err = a.Variance()
	assert.True(t, errors.Is(err, ErrNotReady))
	_, _, err = a.Band(2)
	var nr *NotReadyError
	require.True(t, errors.As(err, &nr))
	assert.Equal(t, "Band", nr.Op)

	// a failed Calculate leaves the averager not ready
	bad := New([]float64{1, 2}, Matrix{{1}})
	require.Error(t, bad.Calculate(context.Background()))
	_, err = bad.Mean()
	assert.True(t, errors.Is(err, ErrNotReady))
}

func TestInvalidInput(t *testing.T) {
	cases := map[string]*Averager{
		"nil sampler":    New([]float64{1}, nil),
		"empty ensemble": New([]float64{1}, Funcs{}),
		"ragged matrix":  New([]float64{1, 2}, Matrix{{1, 2}, {1}}),
		"nan point":      New([]float64{math.NaN()}, Matrix{{1}}),
		"nil func":       New([]float64{1}, Funcs{func(float64) float64 { return 1 }, nil}),
	}
	for name, a := range cases {
		t.Run(name, func(t *testing.T) {
			err := a.Calculate(context.Background())
			assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
		})
	}
}

func TestDeterministicAcrossWorkers(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	const nk, np = 200, 97
	m := make(Matrix, nk)
	for k := range m {
		m[k] = make([]float64, np)
		for i := range m[k] {
			m[k][i] = rng.NormFloat64()*1e3 + float64(i)
		}
	}
	points := linspace(0, 15, np)

	serial := New(points, m, WithWorkers(1))
	require.NoError(t, serial.Calculate(context.Background()))
	parallel := New(points, m, WithWorkers(16))
	require.NoError(t, parallel.Calculate(context.Background()))
	again := New(points, m)
	require.NoError(t, again.Calculate(context.Background()))

	for _, get := range []func(*Averager) ([]float64, error){
		(*Averager).Mean, (*Averager).RMS, (*Averager).Variance,
	} {
		s, _ := get(serial)
		p, _ := get(parallel)
		r, _ := get(again)
		assert.Equal(t, s, p)
		assert.Equal(t, s, r)
	}
}

func TestResultsAreCopies(t *testing.T) {
	a := New([]float64{0}, Matrix{{2}, {4}})
	require.NoError(t, a.Calculate(context.Background()))

	mean, _ := a.Mean()
	mean[0] = 1e9
	again, _ := a.Mean()
	assert.Equal(t, []float64{3}, again)
}

func TestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := New(linspace(0, 1, 10), Funcs{math.Sin})
	err := a.Calculate(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	_, err = a.Mean()
	assert.True(t, errors.Is(err, ErrNotReady))
}

func TestEmptyPoints(t *testing.T) {
	a := New(nil, Funcs{math.Cos})
	require.NoError(t, a.Calculate(context.Background()))
	mean, err := a.Mean()
	require.NoError(t, err)
	assert.Empty(t, mean)
}
