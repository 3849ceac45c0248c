package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/brizzai/backend-client/internal/backend"
	"github.com/brizzai/backend-client/internal/catalog"
	"github.com/brizzai/backend-client/internal/logger"
	"github.com/brizzai/backend-client/internal/tui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type requestOptions struct {
	method string
	params []string
	filter string
	output string
	waitUI bool
}

func (o *requestOptions) addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.method, "method", "X", string(backend.MethodGet), "HTTP method (GET|POST|PUT|DELETE)")
	cmd.Flags().StringArrayVarP(&o.params, "param", "p", nil, "Request parameter as key=value, JSON values are decoded (repeatable)")
}

// request resolves the method and parameters from the flags.
func (o *requestOptions) request() (backend.Method, backend.Params, error) {
	method, err := backend.ParseMethod(o.method)
	if err != nil {
		return "", nil, err
	}
	params, err := parseParams(o.params)
	if err != nil {
		return "", nil, err
	}
	return method, params, nil
}

func newRequestCmd() *cobra.Command {
	opts := &requestOptions{}
	cmd := &cobra.Command{
		Use:   "request <path>",
		Short: "Send a request and print the decoded response",
		Example: `  backendctl request users/42
  backendctl request users -X POST -p name=bob -p age=31
  backendctl request users --jq '.[].name' -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, opts, args[0])
		},
	}

	opts.addRequestFlags(cmd)
	cmd.Flags().StringVar(&opts.filter, "jq", "", "jq expression applied to the response")
	cmd.Flags().StringVarP(&opts.output, "output", "o", formatJSON, "Output format (json|yaml)")
	cmd.Flags().BoolVar(&opts.waitUI, "wait-ui", false, "Show a progress view while waiting for the response")
	return cmd
}

func runRequest(cmd *cobra.Command, opts *requestOptions, path string) error {
	method, params, err := opts.request()
	if err != nil {
		return err
	}
	warnUnknownRoute(method, path)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var exec *backend.Executor
	app := newApp(appConfig, &exec)

	var outcome backend.Outcome[any]
	err = runApp(ctx, app, func(ctx context.Context) error {
		if opts.waitUI {
			return waitWithUI(ctx, exec, path, method, params, &outcome)
		}

		done := make(chan backend.Outcome[any], 1)
		backend.Execute(ctx, exec, path, method, params, func(o backend.Outcome[any]) {
			done <- o
		})
		outcome = <-done
		return nil
	})
	if err != nil {
		return err
	}

	value, callErr := outcome.Get()
	if callErr != nil {
		logger.Debug("Request failed", zap.String("path", path), zap.Error(callErr))
		return errors.New(describeError(outcome.Err))
	}
	return renderValue(cmd.OutOrStdout(), value, opts.filter, opts.output)
}

func waitWithUI(ctx context.Context, exec *backend.Executor, path string, method backend.Method,
	params backend.Params, outcome *backend.Outcome[any],
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	title := fmt.Sprintf("%s %s", method, path)
	result, err := tui.Wait(title, backend.Go[any](ctx, exec, path, method, params))
	if err != nil {
		return err
	}
	*outcome = result
	return nil
}

// warnUnknownRoute warns when a catalog is configured and has no matching route.
func warnUnknownRoute(method backend.Method, path string) {
	file := appConfig.Catalog.OpenAPIFile
	if file == "" {
		return
	}
	c, err := catalog.Load(file)
	if err != nil {
		logger.Warn("Failed to load route catalog", zap.String("file", file), zap.Error(err))
		return
	}
	if _, ok := c.Match(method, path); !ok {
		pterm.Warning.WithWriter(os.Stderr).Printfln("%s %s is not described in %s", method, path, file)
	}
}
