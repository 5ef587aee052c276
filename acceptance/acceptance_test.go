package acceptance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhcb-b2dsk/timeacc/binavg"
	"github.com/lhcb-b2dsk/timeacc/runningstat"
)

var nominal = Model{A: 1.8, N: 2.1, Beta: 0.02}

func TestEval(t *testing.T) {
	assert.Zero(t, nominal.Eval(0))
	assert.Zero(t, nominal.Eval(-1))

	// A t = 1 puts the turn-on at its half point
	m := Model{A: 2, N: 3}
	assert.InDelta(t, 0.5, m.Eval(0.5), 1e-12)

	// far above the turn-on only the linear term is left
	assert.InDelta(t, 1-0.02*10, nominal.Eval(10), 5e-3)
}

func TestToysDeterministic(t *testing.T) {
	sigma := Model{A: 0.1, N: 0.2, Beta: 0.005}
	a := Toys(nominal, sigma, 50, 99)
	b := Toys(nominal, sigma, 50, 99)
	c := Toys(nominal, sigma, 50, 100)

	require.Len(t, a, 50)
	same, differ := true, false
	for k := range a {
		if a[k](1.3) != b[k](1.3) {
			same = false
		}
		if a[k](1.3) != c[k](1.3) {
			differ = true
		}
	}
	assert.True(t, same)
	assert.True(t, differ)
}

func TestToysZeroWidth(t *testing.T) {
	toys := Toys(nominal, Model{}, 5, 1)
	for _, f := range toys {
		assert.Equal(t, nominal.Eval(2), f(2))
	}
}

func TestToyBand(t *testing.T) {
	sigma := Model{A: 0.05, N: 0.05, Beta: 0.002}
	points := []float64{0.5, 1, 2, 5, 10}

	avg := binavg.New(points, Toys(nominal, sigma, 2000, 7))
	require.NoError(t, avg.Calculate(context.Background()))

	mean, err := avg.Mean()
	require.NoError(t, err)
	rms, err := avg.RMS()
	require.NoError(t, err)
	for i, x := range points {
		assert.InDelta(t, nominal.Eval(x), mean[i], 0.02)
		assert.Greater(t, rms[i], 0.0)
		assert.Less(t, rms[i], 0.1)
	}
}

func TestToysSpread(t *testing.T) {
	// only Beta varies, so at fixed t the spread is turnon * t * sigma
	const x, width = 10.0, 0.01
	turnon := nominal.Eval(x) / (1 - nominal.Beta*x)

	var sr runningstat.StatRunner
	for _, f := range Toys(nominal, Model{Beta: width}, 4000, 3) {
		sr.Update(f(x))
	}
	assert.InDelta(t, nominal.Eval(x), sr.Mean(), 0.01)
	assert.InEpsilon(t, turnon*x*width, sr.RMS(), 0.1)
}
