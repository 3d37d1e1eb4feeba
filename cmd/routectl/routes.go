package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/avaroute/internal/router"
)

// routeInfo is the JSON form of a registered route.
type routeInfo struct {
	Name     string            `json:"name,omitempty"`
	Methods  []string          `json:"methods"`
	Path     string            `json:"path"`
	Handler  string            `json:"handler"`
	Tier     string            `json:"tier"`
	Regex    string            `json:"regex,omitempty"`
	Defaults map[string]string `json:"defaults,omitempty"`
}

func newRoutesCommand(opts *rootOptions) *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List registered routes",
		Long: `List the routes of the document in registration order, with the
partition each one was placed in.`,
		Example: `  # List all routes
  routectl routes -c configs/routes.yaml

  # Only routes accepting POST
  routectl routes --method POST --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := opts.load()
			if err != nil {
				return err
			}

			infos := collectRoutes(l.router.Routes(), method)

			p := opts.printer(cmd)
			if opts.json() {
				return p.JSON(infos)
			}

			rows := make([][]string, 0, len(infos))
			for _, ri := range infos {
				rows = append(rows, []string{
					strings.Join(ri.Methods, ","), ri.Path, ri.Handler, ri.Tier, ri.Name,
				})
			}
			p.Table([]string{"METHODS", "PATH", "HANDLER", "TIER", "NAME"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&method, "method", "", "Only list routes accepting this method")

	return cmd
}

// collectRoutes converts routes to routeInfo, keeping those that accept method.
func collectRoutes(routes []*router.Route, method string) []routeInfo {
	out := make([]routeInfo, 0, len(routes))
	for _, rt := range routes {
		if method != "" && !rt.Methods.Has(strings.ToUpper(method)) {
			continue
		}

		ri := routeInfo{
			Name:     rt.Name,
			Methods:  rt.Methods.Methods(),
			Path:     rt.Path(),
			Handler:  rt.Handler.String(),
			Tier:     rt.Tier.String(),
			Defaults: rt.Defaults,
		}
		if rt.Pattern.Regex != nil {
			ri.Regex = rt.Pattern.Regex.String()
		}
		out = append(out, ri)
	}
	return out
}
