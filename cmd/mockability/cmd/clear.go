package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear [METHOD URI]",
		Short: "Forget prepared responses and recorded requests",
		Long: `Without arguments, clears everything the server holds for this client.
With METHOD and URI, clears only that endpoint.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("clear takes no arguments or METHOD URI, got %d argument(s)", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				text string
				err  error
			)
			if len(args) == 0 {
				text, err = a.client.ClearAll(cmd.Context())
			} else {
				text, err = a.client.Clear(cmd.Context(), args[0], args[1])
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
