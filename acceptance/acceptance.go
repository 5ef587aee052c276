// Package acceptance holds the decay-time acceptance shape and the toy
// parameter draws used to build its error band.
package acceptance

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lhcb-b2dsk/timeacc/binavg"
)

// Model is the turn-on curve (A t)^N / (1 + (A t)^N) times a linear
// high-time correction (1 - Beta t).  Time is in ps.
type Model struct {
	A    float64 `mapstructure:"a"`
	N    float64 `mapstructure:"n"`
	Beta float64 `mapstructure:"beta"`
}

func (m Model) Eval(t float64) float64 {
	if t <= 0 {
		return 0
	}
	at := math.Pow(m.A*t, m.N)
	return at / (1 + at) * (1 - m.Beta*t)
}

// Toys draws k models, each parameter independently Gaussian around m with
// width sigma.  A zero width pins the parameter.  The same seed gives the
// same ensemble.
func Toys(m, sigma Model, k int, seed int64) binavg.Funcs {
	src := rand.NewPCG(uint64(seed), 0)
	draw := func(mu, width float64) float64 {
		if width <= 0 {
			return mu
		}
		return distuv.Normal{Mu: mu, Sigma: width, Src: src}.Rand()
	}

	toys := make(binavg.Funcs, k)
	for i := range toys {
		toy := Model{
			A:    draw(m.A, sigma.A),
			N:    draw(m.N, sigma.N),
			Beta: draw(m.Beta, sigma.Beta),
		}
		toys[i] = toy.Eval
	}
	return toys
}
