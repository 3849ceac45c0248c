package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/brizzai/backend-client/internal/backend"
	"github.com/brizzai/backend-client/internal/catalog"
	"github.com/brizzai/backend-client/internal/tui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var errNoCatalog = errors.New("no OpenAPI document configured (set catalog.openapi_file)")

func newRoutesCmd() *cobra.Command {
	var (
		file string
		pick bool
	)
	cmd := &cobra.Command{
		Use:   "routes [filter]",
		Short: "List the routes described by the OpenAPI document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				file = appConfig.Catalog.OpenAPIFile
			}
			if file == "" {
				return errNoCatalog
			}

			c, err := catalog.Load(file)
			if err != nil {
				return err
			}

			routes := c.Routes()
			if len(args) == 1 {
				routes = c.Find(args[0])
			}
			if len(routes) == 0 {
				pterm.Info.Println("No matching routes")
				return nil
			}

			if pick {
				route, err := tui.Pick(routesTitle(c), routes)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), requestCommandLine(route))
				return err
			}

			if title := c.Title(); title != "" {
				pterm.DefaultSection.Println(title)
			}
			return pterm.DefaultTable.
				WithHasHeader().
				WithWriter(cmd.OutOrStdout()).
				WithData(routeTable(routes)).
				Render()
		},
	}
	cmd.Flags().StringVar(&file, "openapi-file", "", "OpenAPI document to read (defaults to catalog.openapi_file)")
	cmd.Flags().BoolVar(&pick, "pick", false, "Choose a route interactively and print the request command for it")
	return cmd
}

func routeTable(routes []catalog.Route) pterm.TableData {
	data := pterm.TableData{{"Method", "Path", "Summary"}}
	for _, r := range routes {
		data = append(data, []string{string(r.Method), r.Path, strings.TrimSpace(r.Summary)})
	}
	return data
}

func routesTitle(c *catalog.Catalog) string {
	if title := c.Title(); title != "" {
		return title
	}
	return "Routes"
}

// requestCommandLine is the backendctl invocation that calls route.
func requestCommandLine(route catalog.Route) string {
	if route.Method == backend.MethodGet {
		return "backendctl request " + route.RelativePath()
	}
	return fmt.Sprintf("backendctl request %s -X %s", route.RelativePath(), route.Method)
}
