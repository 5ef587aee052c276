package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lhcb-b2dsk/timeacc/acceptance"
	"github.com/lhcb-b2dsk/timeacc/binavg"
	"github.com/lhcb-b2dsk/timeacc/logging"
)

const (
	BandHeaderFmt = "t, mean, rms, variance\n"
	BandLineFmt   = "%g, %g, %g, %g\n"
)

func newBandCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "band",
		Short: "average toy acceptance curves into a mean curve and error band",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return a.band(cmd.Context(), out)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "csv file to write (default stdout)")
	cmd.Flags().Int("toys", 0, "number of toy parameter draws (default from config)")
	cmd.Flags().Int64("seed", 0, "random seed (default from config)")
	cmd.Flags().Int("workers", 0, "points evaluated concurrently (default GOMAXPROCS)")
	a.v.BindPFlag("toys", cmd.Flags().Lookup("toys"))
	a.v.BindPFlag("seed", cmd.Flags().Lookup("seed"))
	a.v.BindPFlag("workers", cmd.Flags().Lookup("workers"))
	return cmd
}

func (a *app) band(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	c := a.conf
	points, err := c.Points.Points()
	if err != nil {
		return err
	}
	if c.Toys < 1 {
		return fmt.Errorf("toys must be positive, got %d", c.Toys)
	}

	logging.Log.Infof("Drawing %d toys (seed %d) around %+v", c.Toys, c.Seed, c.Model)
	toys := acceptance.Toys(c.Model, c.Sigma, c.Toys, c.Seed)

	avg := binavg.New(points, toys, binavg.WithWorkers(c.Workers))
	if err := avg.Calculate(ctx); err != nil {
		return err
	}
	mean, err := avg.Mean()
	if err != nil {
		return err
	}
	rms, err := avg.RMS()
	if err != nil {
		return err
	}
	variance, err := avg.Variance()
	if err != nil {
		return err
	}

	fmt.Fprint(out, BandHeaderFmt)
	for i, t := range points {
		fmt.Fprintf(out, BandLineFmt, t, mean[i], rms[i], variance[i])
	}
	logging.Log.Infof("Band evaluated at %d points", len(points))
	return nil
}
