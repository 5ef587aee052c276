package binmerge

import (
	"fmt"
	"math"
)

// ZeroContentPolicy decides what the scan does with a bin (or merged run of
// bins) whose content is zero, where error/content is undefined.
type ZeroContentPolicy int

const (
	// ZeroContentMerge treats zero content as failing the threshold, so
	// the bin is merged with its neighbours.
	ZeroContentMerge ZeroContentPolicy = iota
	// ZeroContentReject aborts the merge with ErrZeroContent as soon as
	// either histogram has zero content in an inspected bin, even if the
	// other one passes there.
	ZeroContentReject
)

func (p ZeroContentPolicy) String() string {
	switch p {
	case ZeroContentMerge:
		return "merge"
	case ZeroContentReject:
		return "reject"
	}
	return fmt.Sprintf("ZeroContentPolicy(%d)", int(p))
}

// ParseZeroContentPolicy accepts the names produced by String.
func ParseZeroContentPolicy(s string) (ZeroContentPolicy, error) {
	switch s {
	case "merge", "":
		return ZeroContentMerge, nil
	case "reject":
		return ZeroContentReject, nil
	}
	return 0, fmt.Errorf("unknown zero-content policy %q", s)
}

const DefaultThreshold = 0.1

type Config struct {
	// A bin is good enough once error/content < Threshold.
	Threshold   float64
	ZeroContent ZeroContentPolicy
}

func DefaultConfig() Config {
	return Config{Threshold: DefaultThreshold, ZeroContent: ZeroContentMerge}
}

func (c Config) validate() error {
	if math.IsNaN(c.Threshold) || math.IsInf(c.Threshold, 0) || c.Threshold <= 0 {
		return invalid(BadThreshold, "threshold must be finite and positive, got %v", c.Threshold)
	}
	if c.ZeroContent != ZeroContentMerge && c.ZeroContent != ZeroContentReject {
		return invalid(BadThreshold, "unknown zero-content policy %v", c.ZeroContent)
	}
	return nil
}

type Result struct {
	Edges []float64
	NIn   int
	NOut  int
	// Short is set when the scan ran out of bins while extending, so the
	// last output bin may not meet the threshold.
	Short bool
}

func (r Result) String() string {
	return fmt.Sprintf("(%d, %d)", r.NIn, r.NOut)
}

type scanState int

const (
	atBinStart scanState = iota
	extending
)

// merger carries the scan state between transitions.
type merger struct {
	cfg  Config
	a, b Histogram

	state  scanState
	i      int     // next original bin to inspect
	sA, sB float64 // running contents of the bin being extended
	edges  []float64
	short  bool
}

// Merge computes a variable-width binning from two histograms sharing the
// same edges such that every output bin, except possibly the last, has a
// relative error below cfg.Threshold in at least one of them.  The first
// bin is always kept as it is.
func Merge(cfg Config, a, b Histogram) (Result, error) {
	if err := cfg.validate(); err != nil {
		return Result{}, err
	}
	if err := a.Validate(); err != nil {
		return Result{}, err
	}
	if err := b.Validate(); err != nil {
		return Result{}, err
	}
	if a.Len() != b.Len() {
		return Result{}, invalid(BadLength, "histograms have %d and %d bins", a.Len(), b.Len())
	}
	for i := range a.Edges {
		if a.Edges[i] != b.Edges[i] {
			return Result{}, invalid(EdgeMismatch, "edge %d differs: %v vs %v", i, a.Edges[i], b.Edges[i])
		}
	}

	m := &merger{
		cfg:   cfg,
		a:     a,
		b:     b,
		state: atBinStart,
		i:     1,
		edges: make([]float64, 0, a.Len()+1),
	}
	m.edges = append(m.edges, a.Edges[0])
	for m.i < a.Len() {
		if err := m.step(); err != nil {
			return Result{}, err
		}
	}
	m.edges = append(m.edges, a.Edges[a.Len()])

	return Result{
		Edges: m.edges,
		NIn:   a.Len(),
		NOut:  len(m.edges) - 1,
		Short: m.short,
	}, nil
}

// MergeOne merges a single histogram against itself.
func MergeOne(cfg Config, h Histogram) (Result, error) {
	return Merge(cfg, h, h)
}

// step performs one transition and consumes exactly one original bin.
func (m *merger) step() error {
	switch m.state {
	case atBinStart:
		i := m.i
		m.edges = append(m.edges, m.a.Edges[i])
		okA, err := m.pass(m.a.Error[i], m.a.Content[i], i)
		if err != nil {
			return err
		}
		okB, err := m.pass(m.b.Error[i], m.b.Content[i], i)
		if err != nil {
			return err
		}
		m.i++
		if okA || okB {
			return nil
		}
		m.sA, m.sB = m.a.Content[i], m.b.Content[i]
		m.state = extending
		if m.i == m.a.Len() {
			m.short = true
		}

	case extending:
		j := m.i
		m.sA += m.a.Content[j]
		m.sB += m.b.Content[j]
		m.i++
		okA, err := m.pass(math.Sqrt(m.sA), m.sA, j)
		if err != nil {
			return err
		}
		okB, err := m.pass(math.Sqrt(m.sB), m.sB, j)
		if err != nil {
			return err
		}
		if okA || okB {
			m.state = atBinStart
			return nil
		}
		if m.i == m.a.Len() {
			m.short = true
		}
	}
	return nil
}

func (m *merger) pass(err, content float64, bin int) (bool, error) {
	if content == 0 {
		if m.cfg.ZeroContent == ZeroContentReject {
			return false, invalid(ZeroContent, "bin %d has zero content", bin)
		}
		return false, nil
	}
	return err/content < m.cfg.Threshold, nil
}
