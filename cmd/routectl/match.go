package main

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/avaroute/internal/router"
)

// matchInfo is the JSON form of a lookup.
type matchInfo struct {
	Status  string            `json:"status"`
	Method  string            `json:"method"`
	Path    string            `json:"path"`
	Route   string            `json:"route,omitempty"`
	Handler string            `json:"handler,omitempty"`
	Action  string            `json:"action,omitempty"`
	Tier    string            `json:"tier,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
	Allowed []string          `json:"allowed,omitempty"`
}

func newMatchCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "match <method> <path>",
		Short: "Resolve a request against the document",
		Long: `Resolve a request method and path the way the routing daemon would and
print the outcome. The command fails when the request does not resolve.`,
		Example: `  routectl match GET /user/42
  routectl match POST '/blog/hello-world?draft=1' --format json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := opts.load()
			if err != nil {
				return err
			}

			res, matchErr := l.router.MatchErr(strings.ToUpper(args[0]), args[1])
			info := describeMatch(res, l.router.Matcher().Options().DefaultAction)

			p := opts.printer(cmd)
			if opts.json() {
				if err := p.JSON(info); err != nil {
					return err
				}
			} else {
				printMatch(p, info)
			}

			return matchErr
		},
	}
}

func describeMatch(res router.Result, defaultAction string) matchInfo {
	info := matchInfo{
		Status:  res.Status.String(),
		Method:  res.Method,
		Path:    res.Path,
		Allowed: res.Allowed,
	}
	if res.Status != router.Found {
		return info
	}

	info.Route = res.Pattern()
	info.Handler = res.Handler.String()
	info.Tier = res.Tier.String()
	info.Params = res.Params
	if named, err := router.ResolveAction(res, defaultAction); err == nil {
		info.Action = named.String()
	}
	return info
}

func printMatch(p *printer, info matchInfo) {
	p.KeyValue("status", info.Status)
	p.KeyValue("request", info.Method+" "+info.Path)
	if len(info.Allowed) > 0 {
		p.KeyValue("allowed", strings.Join(info.Allowed, ", "))
	}
	if info.Route == "" {
		return
	}

	p.KeyValue("route", info.Route)
	p.KeyValue("handler", info.Handler)
	if info.Action != "" && info.Action != info.Handler {
		p.KeyValue("action", info.Action)
	}
	p.KeyValue("tier", info.Tier)

	keys := make([]string, 0, len(info.Params))
	for k := range info.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p.KeyValue("param", k+"="+info.Params[k])
	}
}
