package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func validateCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "validate ID [ID...]",
		Short: "Check the checksum letter of one or more identifiers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := st.svc.ValidateBatch(cmd.Context(), args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			failed := 0
			for _, r := range results {
				if r.Valid {
					fmt.Fprintf(out, "%s valid\n", r.NRIC)
					continue
				}
				failed++
				fmt.Fprintf(out, "%s invalid: %s\n", r.NRIC, r.Reason)
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d", ErrInvalid, failed, len(results))
			}
			return nil
		},
	}
}
