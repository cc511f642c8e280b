package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func resolveCmd(st *state) *cobra.Command {
	var explain bool
	cmd := &cobra.Command{
		Use:   "resolve DDMMYYYY LAST4",
		Short: "Estimate a full identifier from a birth date and its last four characters",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := st.svc.Resolve(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, res.NRIC)
			if !explain {
				return nil
			}

			fmt.Fprintf(out, "estimate: %.2f\n", res.Estimate)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CANDIDATE\tSEQUENCE\tDEVIATION")
			for _, c := range res.Candidates {
				fmt.Fprintf(tw, "%s\t%05d\t%.2f\n", c.NRIC, c.Sequence, c.Deviation)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "print the estimate and every scored candidate")
	return cmd
}
