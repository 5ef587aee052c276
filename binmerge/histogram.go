package binmerge

import (
	"math"
)

// Histogram is a read-only view of binned data: N bins described by N+1
// edges, with a content and a statistical error per bin.
type Histogram struct {
	Edges   []float64
	Content []float64
	Error   []float64
}

func (h Histogram) Len() int {
	return len(h.Content)
}

func (h Histogram) Validate() error {
	n := len(h.Content)
	if n == 0 {
		return invalid(BadLength, "histogram has no bins")
	}
	if len(h.Error) != n {
		return invalid(BadLength, "%d contents but %d errors", n, len(h.Error))
	}
	if len(h.Edges) != n+1 {
		return invalid(BadLength, "%d bins need %d edges, got %d", n, n+1, len(h.Edges))
	}
	for i := 0; i < n; i++ {
		if !nonNegative(h.Content[i]) {
			return invalid(BadValue, "bin %d: bad content %v", i, h.Content[i])
		}
		if !nonNegative(h.Error[i]) {
			return invalid(BadValue, "bin %d: bad error %v", i, h.Error[i])
		}
	}
	return checkEdges(h.Edges)
}

func nonNegative(x float64) bool {
	return x >= 0 && !math.IsInf(x, 1)
}

func checkEdges(edges []float64) error {
	for i, e := range edges {
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return invalid(BadEdges, "edge %d is not finite", i)
		}
		if i > 0 && e <= edges[i-1] {
			return invalid(BadEdges, "edges not strictly increasing at %d (%v <= %v)", i, e, edges[i-1])
		}
	}
	return nil
}

// PoissonErrors returns sqrt(c) for every content c.
func PoissonErrors(content []float64) []float64 {
	errs := make([]float64, len(content))
	for i, c := range content {
		errs[i] = math.Sqrt(c)
	}
	return errs
}

// Rebin sums h into the coarser binning given by edges, which must be a
// subset of h.Edges sharing both endpoints.  Errors add in quadrature.
func Rebin(h Histogram, edges []float64) (Histogram, error) {
	if err := h.Validate(); err != nil {
		return Histogram{}, err
	}
	if len(edges) < 2 {
		return Histogram{}, invalid(BadLength, "need at least 2 edges, got %d", len(edges))
	}
	if err := checkEdges(edges); err != nil {
		return Histogram{}, err
	}
	if edges[0] != h.Edges[0] || edges[len(edges)-1] != h.Edges[h.Len()] {
		return Histogram{}, invalid(EdgeMismatch, "range [%v, %v] differs from histogram range [%v, %v]",
			edges[0], edges[len(edges)-1], h.Edges[0], h.Edges[h.Len()])
	}

	// position of every requested edge among the original edges
	idx := make([]int, len(edges))
	i := 0
	for k, e := range edges {
		for i < len(h.Edges) && h.Edges[i] < e {
			i++
		}
		if i == len(h.Edges) || h.Edges[i] != e {
			return Histogram{}, invalid(EdgeMismatch, "%v is not an edge of the histogram", e)
		}
		idx[k] = i
	}

	out := Histogram{
		Edges:   append([]float64(nil), edges...),
		Content: make([]float64, len(edges)-1),
		Error:   make([]float64, len(edges)-1),
	}
	for k := 0; k < len(edges)-1; k++ {
		var sumsq float64
		for i := idx[k]; i < idx[k+1]; i++ {
			out.Content[k] += h.Content[i]
			sumsq += h.Error[i] * h.Error[i]
		}
		out.Error[k] = math.Sqrt(sumsq)
	}
	return out, nil
}
