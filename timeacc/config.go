package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/lhcb-b2dsk/timeacc/acceptance"
	"github.com/lhcb-b2dsk/timeacc/binmerge"
	"github.com/lhcb-b2dsk/timeacc/histio"
)

type PointGrid struct {
	Min float64 `mapstructure:"min"`
	Max float64 `mapstructure:"max"`
	N   int     `mapstructure:"n"`
}

func (g PointGrid) Points() ([]float64, error) {
	if g.N < 1 {
		return nil, fmt.Errorf("points.n must be positive, got %d", g.N)
	}
	if g.N == 1 {
		return []float64{g.Min}, nil
	}
	if !(g.Max > g.Min) {
		return nil, fmt.Errorf("points range [%v, %v] is empty", g.Min, g.Max)
	}
	xs := make([]float64, g.N)
	step := (g.Max - g.Min) / float64(g.N-1)
	for i := range xs {
		xs[i] = g.Min + step*float64(i)
	}
	xs[g.N-1] = g.Max
	return xs, nil
}

type Config struct {
	LogLevel    string           `mapstructure:"log-level"`
	Threshold   float64          `mapstructure:"threshold"`
	ZeroContent string           `mapstructure:"zero-content"`
	Binning     histio.Binning   `mapstructure:"binning"`
	Workers     int              `mapstructure:"workers"`
	Points      PointGrid        `mapstructure:"points"`
	Toys        int              `mapstructure:"toys"`
	Seed        int64            `mapstructure:"seed"`
	Model       acceptance.Model `mapstructure:"model"`
	Sigma       acceptance.Model `mapstructure:"sigma"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log-level", "INFO")
	v.SetDefault("threshold", binmerge.DefaultThreshold)
	v.SetDefault("zero-content", binmerge.ZeroContentMerge.String())
	// decay-time range in ps
	v.SetDefault("binning.bins", 150)
	v.SetDefault("binning.min", 0.4)
	v.SetDefault("binning.max", 15.0)
	v.SetDefault("workers", 0)
	v.SetDefault("points.min", 0.4)
	v.SetDefault("points.max", 15.0)
	v.SetDefault("points.n", 200)
	v.SetDefault("toys", 1000)
	v.SetDefault("seed", 1)
	v.SetDefault("model.a", 1.8)
	v.SetDefault("model.n", 2.1)
	v.SetDefault("model.beta", 0.02)
	v.SetDefault("sigma.a", 0.05)
	v.SetDefault("sigma.n", 0.08)
	v.SetDefault("sigma.beta", 0.003)
}

func (c Config) mergeConfig() (binmerge.Config, error) {
	policy, err := binmerge.ParseZeroContentPolicy(c.ZeroContent)
	if err != nil {
		return binmerge.Config{}, err
	}
	return binmerge.Config{Threshold: c.Threshold, ZeroContent: policy}, nil
}
