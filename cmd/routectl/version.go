package main

import (
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := opts.printer(cmd)
			if opts.json() {
				return p.JSON(map[string]string{
					"version":   version,
					"gitCommit": gitCommit,
					"buildTime": buildTime,
					"goVersion": runtime.Version(),
				})
			}

			p.KeyValue("version", version)
			p.KeyValue("commit", gitCommit)
			p.KeyValue("built", buildTime)
			p.KeyValue("go", runtime.Version())
			return nil
		},
	}
}
