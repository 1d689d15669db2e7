package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/IvanTurko/mockability-sdk-go/adapter"
	"github.com/IvanTurko/mockability-sdk-go/adapter/simple"
	"github.com/IvanTurko/mockability-sdk-go/wire"
	"github.com/spf13/cobra"
)

func newReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report METHOD URI",
		Short: "Print the requests the server recorded for METHOD and URI",
		Long:  `Prints the recorded requests, oldest first, as indented JSON. Bodies are base64.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs, err := a.client.Report(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			canonical := make([]adapter.Request, 0, len(reqs))
			for _, r := range reqs {
				c, err := adapter.ToRequest(simple.Adapter{}, r)
				if err != nil {
					return err
				}
				canonical = append(canonical, c)
			}
			data, err := wire.EncodeRequests(canonical)
			if err != nil {
				return err
			}

			var out bytes.Buffer
			if err := json.Indent(&out, data, "", "  "); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.String())
			return nil
		},
	}
}
