package cli

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve is a [kong.ConfigurationLoader] that parses YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// The YAML document structure is converted as follows:
//   - Top-level keys map directly to flag names
//   - Nested mappings flatten to hyphenated flag names, so
//     "log: {level: debug}" resolves the --log-level flag
//   - Flag names may be written with underscores in place of hyphens
//   - Numbers and booleans convert to the string form Kong parses
//
// Example YAML config file:
//
//	log:
//	  level: debug
//	  format: json
//	  pretty: true
//
// This configuration will be applied to Kong flags:
//
//	--log-level=debug
//	--log-format=json
//	--log-pretty=true
//
// Command-line flags override config file values.
func resolve(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		// Missing or empty config files resolve nothing.
		if errors.Is(err, io.EOF) {
			return config{}, nil
		}

		return nil, err
	}

	values := make(config)
	flatten(doc, "", values)

	return values, nil
}

// config implements [kong.Resolver] for flattened YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// The config was already parsed successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but YAML keys may use
	// underscores. Try both forms.
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	underscoreName := strings.ReplaceAll(flag.Name, "-", "_")
	if value, ok := r[underscoreName]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// flatten walks a decoded YAML mapping and records every scalar leaf under
// its hyphen-joined key path.
func flatten(node map[string]any, prefix string, out config) {
	for key, value := range node {
		name := key
		if prefix != "" {
			name = prefix + "-" + key
		}

		switch v := value.(type) {
		case map[string]any:
			flatten(v, name, out)

		default:
			out[name] = flagValue(v)
		}
	}
}

// flagValue converts a decoded YAML scalar to the representation Kong
// expects when resolving flag values. Kong parses numbers from strings.
func flagValue(value any) any {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v)

	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	default:
		return value
	}
}
