// Package cli contains the command line interface for ysx.
//
// # Usage
//
// The default command converts YAML sources to S-expressions:
//
//	ysx file.yaml
//	ysx --pretty --env file.yaml
//	cat file.yaml | ysx
//
// Subcommands:
//   - convert: Convert YAML sources to S-expressions (default)
//   - check: Validate YAML sources without writing output
//   - repl: Interactively preview conversions while editing
//
// # Configuration
//
// Flags may be persisted in a config file under the user configuration
// directory (e.g., ~/.config/ysx/config.yaml or config.json). Nested YAML
// mappings flatten to hyphenated flag names, so the file
//
//	log:
//	  level: debug
//	  pretty: true
//
// is equivalent to passing --log-level=debug --log-pretty. Command-line
// flags override config file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Enable colorized pretty printing
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/ysx/pprof)
//
// # Examples
//
//	# Pretty-print with a 4-space indent
//	ysx --pretty --indent=4 deploy.yaml
//
//	# Substitute ${...} placeholders from the environment
//	ysx --env config.yaml
//
//	# Validate sources with debug logging
//	ysx check --log-level=debug one.yaml two.yaml
//
//	# Debug logging with CPU profiling
//	ysx --log-level=debug --pprof-mode=cpu big.yaml
package cli
