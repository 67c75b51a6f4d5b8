package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func resolveString(t *testing.T, doc string) kong.Resolver {
	t.Helper()

	resolver, err := resolve(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	return resolver
}

func resolveFlag(t *testing.T, r kong.Resolver, name string) any {
	t.Helper()

	flag := &kong.Flag{Value: &kong.Value{Name: name}}

	val, err := r.Resolve(nil, nil, flag)
	if err != nil {
		t.Fatalf("Resolve %q: %v", name, err)
	}

	return val
}

func TestResolve_FlattensNestedMappings(t *testing.T) {
	t.Parallel()

	resolver := resolveString(t, `
log:
  level: debug
  format: json
  pretty: true
`)

	if val := resolveFlag(t, resolver, "log-level"); val != "debug" {
		t.Errorf("log-level = %v, want debug", val)
	}

	if val := resolveFlag(t, resolver, "log-format"); val != "json" {
		t.Errorf("log-format = %v, want json", val)
	}

	if val := resolveFlag(t, resolver, "log-pretty"); val != true {
		t.Errorf("log-pretty = %v, want true", val)
	}
}

func TestResolve_TopLevelKeys(t *testing.T) {
	t.Parallel()

	resolver := resolveString(t, "indent: 4\noutput: out.sexpr\n")

	// Numbers resolve as strings so Kong can parse them into typed flags.
	if val := resolveFlag(t, resolver, "indent"); val != "4" {
		t.Errorf("indent = %v (%T), want \"4\"", val, val)
	}

	if val := resolveFlag(t, resolver, "output"); val != "out.sexpr" {
		t.Errorf("output = %v, want out.sexpr", val)
	}
}

func TestResolve_UnderscoreHyphenMapping(t *testing.T) {
	t.Parallel()

	resolver := resolveString(t, "log_level: debug\n")

	if val := resolveFlag(t, resolver, "log_level"); val != "debug" {
		t.Errorf("log_level = %v, want debug", val)
	}

	// The hyphenated flag name falls back to the underscore key.
	if val := resolveFlag(t, resolver, "log-level"); val != "debug" {
		t.Errorf("log-level = %v, want debug", val)
	}
}

func TestResolve_MissingKeyDefersToDefaults(t *testing.T) {
	t.Parallel()

	resolver := resolveString(t, "log:\n  level: debug\n")

	if val := resolveFlag(t, resolver, "pretty"); val != nil {
		t.Errorf("pretty = %v, want nil", val)
	}
}

func TestResolve_EmptyDocument(t *testing.T) {
	t.Parallel()

	resolver := resolveString(t, "")

	if val := resolveFlag(t, resolver, "log-level"); val != nil {
		t.Errorf("log-level = %v, want nil", val)
	}
}

func TestResolve_MalformedDocument(t *testing.T) {
	t.Parallel()

	if _, err := resolve(strings.NewReader("log: [1, 2\n")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFlagValue_NumericConversions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  any
	}{
		{"int", int(7), "7"},
		{"int64", int64(-12), "-12"},
		{"uint64", uint64(42), "42"},
		{"float", float64(2.5), "2.5"},
		{"string", "plain", "plain"},
		{"bool", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := flagValue(tt.value); got != tt.want {
				t.Errorf("flagValue(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
