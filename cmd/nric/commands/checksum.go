package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func checksumCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "checksum PARTIAL",
		Short: "Append the checksum letter to an identifier's first eight characters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := st.svc.Complete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}
