package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/IvanTurko/mockability-sdk-go/adapter"
	"github.com/IvanTurko/mockability-sdk-go/adapter/simple"
	"github.com/spf13/cobra"
)

type prepareOpts struct {
	status   int
	headers  []string
	body     string
	bodyFile string
}

func newPrepareCmd(a *app) *cobra.Command {
	o := &prepareOpts{}

	cmd := &cobra.Command{
		Use:   "prepare METHOD URI",
		Short: "Queue a response for METHOD and URI",
		Long: `Queues one response on the server. Repeat to queue more; the server hands
them out in the order they were prepared.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := o.response()
			if err != nil {
				return err
			}
			text, err := a.client.Prepare(cmd.Context(), args[0], args[1], resp)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVarP(&o.status, "status", "s", 200, "Status code of the response")
	f.StringArrayVarP(&o.headers, "header", "H", nil, "Response header as name:value; repeatable")
	f.StringVarP(&o.body, "body", "b", "", "Response body")
	f.StringVar(&o.bodyFile, "body-file", "", "Read the response body from a file")
	cmd.MarkFlagsMutuallyExclusive("body", "body-file")
	return cmd
}

func (o *prepareOpts) response() (*simple.Response, error) {
	pairs := make([]adapter.HeaderPair, 0, len(o.headers))
	for _, h := range o.headers {
		p, err := parseHeader(h)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}

	body := []byte(o.body)
	if o.bodyFile != "" {
		b, err := os.ReadFile(o.bodyFile)
		if err != nil {
			return nil, err
		}
		body = b
	}
	return simple.NewResponse(o.status, pairs...).WithBody(body), nil
}

// parseHeader splits "name:value". Whitespace around the value is dropped;
// the name must be non-empty.
func parseHeader(s string) (adapter.HeaderPair, error) {
	name, value, ok := strings.Cut(s, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return adapter.HeaderPair{}, fmt.Errorf("invalid header %q, want name:value", s)
	}
	return adapter.NewHeaderPair(name, strings.TrimSpace(value)), nil
}
