package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/avaroute/internal/config"
	"github.com/vyrodovalexey/avaroute/internal/observability"
	"github.com/vyrodovalexey/avaroute/internal/router"
	"github.com/vyrodovalexey/avaroute/internal/service"
)

const envConfigPath = "AVAROUTE_CONFIG_PATH"

// Output formats.
const (
	formatTable = "table"
	formatJSON  = "json"
)

// rootOptions holds the persistent flags shared by all commands.
type rootOptions struct {
	configPath string
	format     string
	noColor    bool
}

// newRootCommand creates the routectl command tree.
func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	defaultPath := os.Getenv(envConfigPath)
	if defaultPath == "" {
		defaultPath = "configs/routes.yaml"
	}

	cmd := &cobra.Command{
		Use:   "routectl",
		Short: "Inspect and test avaroute route documents",
		Long: `routectl loads a route document the same way the routing daemon does
and answers questions about it without starting a server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			switch opts.format {
			case formatTable, formatJSON:
				return nil
			default:
				return fmt.Errorf("unknown output format %q (want %s or %s)", opts.format, formatTable, formatJSON)
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", defaultPath, "Path to the route document")
	cmd.PersistentFlags().StringVar(&opts.format, "format", formatTable, "Output format: table or json")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(
		newRoutesCommand(opts),
		newMatchCommand(opts),
		newServicesCommand(opts),
		newServiceCommand(opts),
		newValidateCommand(opts),
		newVersionCommand(opts),
	)

	return cmd
}

// loaded is a route document with its routing snapshot and service table.
type loaded struct {
	doc      *config.RouteDocument
	router   *router.Router
	services *service.Table
}

// load reads and validates the document and builds what the daemon would
// serve from it.
func (o *rootOptions) load() (*loaded, error) {
	doc, err := config.LoadAndValidate(o.configPath)
	if err != nil {
		return nil, err
	}

	r := router.New()
	if err := r.Load(doc.RouterOptions(), doc.RegisterFunc()); err != nil {
		return nil, err
	}

	table, err := doc.ServiceTable(observability.NopLogger())
	if err != nil {
		return nil, err
	}

	return &loaded{doc: doc, router: r, services: table}, nil
}

func (o *rootOptions) printer(cmd *cobra.Command) *printer {
	return newPrinter(cmd.OutOrStdout(), o.noColor)
}

func (o *rootOptions) json() bool {
	return strings.EqualFold(o.format, formatJSON)
}
