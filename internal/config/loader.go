package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vyrodovalexey/avaroute/internal/util"
)

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// escapedDollar stands in for "$$" while variables are substituted.
const escapedDollar = "\x00ESCAPED_DOLLAR\x00"

// Load reads, substitutes and decodes a route document from path.
// The document is not validated.
func Load(path string) (*RouteDocument, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	data, err := os.ReadFile(absPath) //nolint:gosec // operator supplied path
	if err != nil {
		return nil, fmt.Errorf("failed to read route document %s: %w", path, err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// LoadFromReader reads a route document from r.
func LoadFromReader(r io.Reader) (*RouteDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read route document: %w", err)
	}
	return Parse(data)
}

// LoadAndValidate loads the document at path and validates it.
func LoadAndValidate(path string) (*RouteDocument, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Parse substitutes environment variables in data and decodes it. Unknown
// fields are rejected.
func Parse(data []byte) (*RouteDocument, error) {
	content := SubstituteEnvVars(string(data))

	dec := yaml.NewDecoder(bytes.NewReader([]byte(content)))
	dec.KnownFields(true)

	var doc RouteDocument
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, util.NewConfigError("", "route document is empty")
		}
		return nil, util.NewConfigErrorWithCause("", "failed to parse YAML: "+err.Error(), err)
	}

	return &doc, nil
}

// SubstituteEnvVars replaces ${VAR} and ${VAR:-default} with environment
// values. "$$" produces a literal "$".
func SubstituteEnvVars(content string) string {
	content = strings.ReplaceAll(content, "$$", escapedDollar)

	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		sub := envVarPattern.FindStringSubmatch(match)
		if value, ok := os.LookupEnv(sub[1]); ok {
			return value
		}
		return sub[2]
	})

	return strings.ReplaceAll(result, escapedDollar, "$")
}
