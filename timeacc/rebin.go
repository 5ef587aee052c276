package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lhcb-b2dsk/timeacc/binmerge"
	"github.com/lhcb-b2dsk/timeacc/edgeio"
	"github.com/lhcb-b2dsk/timeacc/histio"
	"github.com/lhcb-b2dsk/timeacc/logging"
)

const (
	RebinHeaderFmt = "lo, hi, content_a, error_a, content_b, error_b\n"
	RebinLineFmt   = "%g, %g, %g, %g, %g, %g\n"
)

func newRebinCmd(a *app) *cobra.Command {
	var output string
	var printBins bool

	cmd := &cobra.Command{
		Use:   "rebin HIST_A [HIST_B]",
		Short: "merge sparse bins into a variable binning good for both histograms",
		Long: `Merges neighbouring bins until the relative error of every output bin
is below the threshold in at least one of the two histograms.  The first bin
is never merged.  With a single histogram it is merged against itself.

Histograms are read from .json, .yoda, or .csv/.txt event lists (filled
with the configured binning).  The edges are written to the output file,
whose extension selects binary (.bin), .json or .msgpack.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.rebin(cmd.OutOrStdout(), args, output, printBins)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "edges.bin", "edge file to write")
	cmd.Flags().BoolVar(&printBins, "print", false, "print the merged bins as csv")
	cmd.Flags().Float64("threshold", 0, "relative error target (default from config)")
	cmd.Flags().String("zero-content", "", "zero-content policy: merge or reject")
	a.v.BindPFlag("threshold", cmd.Flags().Lookup("threshold"))
	a.v.BindPFlag("zero-content", cmd.Flags().Lookup("zero-content"))
	return cmd
}

func (a *app) rebin(out io.Writer, args []string, output string, printBins bool) error {
	cfg, err := a.conf.mergeConfig()
	if err != nil {
		return err
	}

	ha, err := histio.Load(args[0], a.conf.Binning)
	if err != nil {
		return err
	}
	hb := ha
	if len(args) == 2 {
		if hb, err = histio.Load(args[1], a.conf.Binning); err != nil {
			return err
		}
	}
	logging.Log.Infof("Loaded %d bins over [%g, %g]", ha.Len(), ha.Edges[0], ha.Edges[ha.Len()])

	res, err := binmerge.Merge(cfg, ha, hb)
	if err != nil {
		return err
	}
	logging.Log.Infof("Merged bins %v with threshold %g", res, cfg.Threshold)
	if res.Short {
		logging.Log.Debugf("Last bin [%g, %g] does not reach the threshold",
			res.Edges[res.NOut-1], res.Edges[res.NOut])
	}

	doc := &edgeio.EdgeDoc{
		Threshold: cfg.Threshold,
		NIn:       res.NIn,
		NOut:      res.NOut,
		Edges:     res.Edges,
	}
	if err := edgeio.Save(output, doc); err != nil {
		return err
	}
	logging.Log.Infof("Edges written to <%s>", output)

	if !printBins {
		return nil
	}
	ra, err := binmerge.Rebin(ha, res.Edges)
	if err != nil {
		return err
	}
	rb, err := binmerge.Rebin(hb, res.Edges)
	if err != nil {
		return err
	}
	fmt.Fprint(out, RebinHeaderFmt)
	for i := 0; i < ra.Len(); i++ {
		fmt.Fprintf(out, RebinLineFmt,
			ra.Edges[i], ra.Edges[i+1],
			ra.Content[i], ra.Error[i],
			rb.Content[i], rb.Error[i])
	}
	return nil
}
