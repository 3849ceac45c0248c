package main

import (
	"context"
	"fmt"

	"github.com/brizzai/backend-client/internal/backend"
	"github.com/spf13/cobra"
)

func newCurlCmd() *cobra.Command {
	opts := &requestOptions{}
	cmd := &cobra.Command{
		Use:   "curl <path>",
		Short: "Print the curl command for a request without sending it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			method, params, err := opts.request()
			if err != nil {
				return err
			}

			var builder *backend.RequestBuilder
			app := newApp(appConfig, &builder)
			return runApp(cmd.Context(), app, func(context.Context) error {
				req, ok := builder.Build(args[0], method, params)
				if !ok {
					return fmt.Errorf("%w: %s %s", backend.ErrCouldNotInitRequest, method, args[0])
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), req.CurlString())
				return err
			})
		},
	}
	opts.addRequestFlags(cmd)
	return cmd
}
