package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/avaroute/internal/config"
)

const stdinPath = "-"

// validationResult is the JSON form of one validated document.
type validationResult struct {
	Path   string   `json:"path"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

func newValidateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file...]",
		Short: "Validate route documents",
		Long: `Validate one or more route documents. Without arguments the document
given by --config is validated. A file named "-" is read from standard input.
Every problem in a document is reported.`,
		Example: `  routectl validate
  routectl validate configs/*.yaml
  envsubst < routes.tmpl.yaml | routectl validate -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				paths = []string{opts.configPath}
			}

			results := make([]validationResult, 0, len(paths))
			invalid := 0
			for _, path := range paths {
				res := validateFile(cmd.InOrStdin(), path)
				if !res.Valid {
					invalid++
				}
				results = append(results, res)
			}

			p := opts.printer(cmd)
			if opts.json() {
				if err := p.JSON(results); err != nil {
					return err
				}
			} else {
				for _, res := range results {
					if res.Valid {
						p.Success("%s is valid", res.Path)
						continue
					}
					p.Failure("%s is invalid", res.Path)
					for _, msg := range res.Errors {
						fmt.Fprintf(p.w, "    %s\n", msg)
					}
				}
			}

			if invalid > 0 {
				return fmt.Errorf("%d of %d documents are invalid", invalid, len(results))
			}
			return nil
		},
	}
}

func validateFile(stdin io.Reader, path string) validationResult {
	res := validationResult{Path: path, Valid: true}

	var doc *config.RouteDocument
	var err error
	if path == stdinPath {
		doc, err = config.LoadFromReader(stdin)
	} else {
		doc, err = config.Load(path)
	}
	if err == nil {
		err = config.Validate(doc)
	}
	if err == nil {
		return res
	}

	res.Valid = false
	var verrs config.ValidationErrors
	if errors.As(err, &verrs) {
		for i := range verrs {
			res.Errors = append(res.Errors, verrs[i].Error())
		}
		return res
	}
	res.Errors = []string{err.Error()}
	return res
}
