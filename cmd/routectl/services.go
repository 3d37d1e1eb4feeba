package main

import (
	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/avaroute/internal/service"
)

// serviceInfo is the JSON form of an RPC entry.
type serviceInfo struct {
	Func   string `json:"func"`
	Class  string `json:"class"`
	Method string `json:"method"`
}

func toServiceInfo(e service.Entry) serviceInfo {
	return serviceInfo{Func: e.ServiceKey, Class: e.ClassName, Method: e.MethodName}
}

func newServicesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "services",
		Short: "List RPC service keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := opts.load()
			if err != nil {
				return err
			}

			entries := l.services.Entries()
			infos := make([]serviceInfo, 0, len(entries))
			for _, e := range entries {
				infos = append(infos, toServiceInfo(e))
			}

			p := opts.printer(cmd)
			if opts.json() {
				return p.JSON(infos)
			}

			rows := make([][]string, 0, len(infos))
			for _, si := range infos {
				rows = append(rows, []string{si.Func, si.Class, si.Method})
			}
			p.Table([]string{"FUNC", "CLASS", "METHOD"}, rows)
			return nil
		},
	}
}

func newServiceCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "service <func>",
		Short:   "Resolve an RPC function name",
		Example: `  routectl service User::login`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := opts.load()
			if err != nil {
				return err
			}

			entry, err := l.services.Match(args[0])
			if err != nil {
				return err
			}

			info := toServiceInfo(entry)
			p := opts.printer(cmd)
			if opts.json() {
				return p.JSON(info)
			}

			p.KeyValue("func", info.Func)
			p.KeyValue("class", info.Class)
			p.KeyValue("method", info.Method)
			return nil
		},
	}
}
