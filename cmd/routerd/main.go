// Package main is the entry point of the routing daemon.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/vyrodovalexey/avaroute/internal/config"
	"github.com/vyrodovalexey/avaroute/internal/observability"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// Environment variables read as flag defaults.
const (
	envConfigPath = "AVAROUTE_CONFIG_PATH"
	envLogLevel   = "AVAROUTE_LOG_LEVEL"
	envLogFormat  = "AVAROUTE_LOG_FORMAT"
	envWatch      = "AVAROUTE_WATCH"
)

// cliFlags holds command line flags. logLevel and logFormat are empty unless
// given on the command line or in the environment.
type cliFlags struct {
	configPath  string
	logLevel    string
	logFormat   string
	watch       bool
	showVersion bool
}

func main() {
	flags, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	if flags.showVersion {
		printVersion(os.Stdout)
		return
	}

	doc, err := config.LoadAndValidate(flags.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load route document %s: %v\n", flags.configPath, err)
		os.Exit(1)
	}

	logger, err := observability.NewLogger(resolveLogConfig(flags, doc))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting avaroute",
		observability.String("version", version),
		observability.String("config", flags.configPath),
		observability.String("document", doc.Metadata.Name),
	)

	app, err := initApplication(doc, logger)
	if err != nil {
		logger.Error("failed to initialize", observability.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}

	if err := run(app, flags); err != nil {
		logger.Error("routing daemon failed", observability.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// parseFlags parses args into cliFlags.
func parseFlags(args []string, output io.Writer) (cliFlags, error) {
	var f cliFlags

	fs := flag.NewFlagSet("routerd", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&f.configPath, "config", getEnvOrDefault(envConfigPath, "configs/routes.yaml"),
		"Path to the route document")
	fs.StringVar(&f.logLevel, "log-level", getEnvOrDefault(envLogLevel, ""),
		"Log level (debug, info, warn, error); overrides the document")
	fs.StringVar(&f.logFormat, "log-format", getEnvOrDefault(envLogFormat, ""),
		"Log format (json, console); overrides the document")
	fs.BoolVar(&f.watch, "watch", getEnvBool(envWatch, true),
		"Reload the route document when it changes")
	fs.BoolVar(&f.showVersion, "version", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		return cliFlags{}, err
	}
	return f, nil
}

// resolveLogConfig merges the document's logging section with the flags.
func resolveLogConfig(flags cliFlags, doc *config.RouteDocument) observability.LogConfig {
	cfg := observability.DefaultLogConfig()

	if l := doc.Spec.ObservabilityOrDefault().Logging; l != nil {
		cfg.Level = l.Level
		cfg.Format = l.Format
		if l.Output != "" {
			cfg.Output = l.Output
		}
	}
	if flags.logLevel != "" {
		cfg.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Format = flags.logFormat
	}

	return cfg
}

// printVersion prints version information.
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "avaroute version %s\n", version)
	fmt.Fprintf(w, "  Build time: %s\n", buildTime)
	fmt.Fprintf(w, "  Git commit: %s\n", gitCommit)
}
