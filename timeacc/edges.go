package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lhcb-b2dsk/timeacc/edgeio"
)

func newEdgesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edges FILE",
		Short: "print a stored edge file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := edgeio.Load(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if doc.NIn > 0 {
				fmt.Fprintf(out, "# bins: %d -> %d, threshold %g\n", doc.NIn, doc.NOut, doc.Threshold)
			} else {
				fmt.Fprintf(out, "# bins: %d\n", doc.NOut)
			}
			for _, e := range doc.Edges {
				fmt.Fprintf(out, "%g\n", e)
			}
			return nil
		},
	}
}
