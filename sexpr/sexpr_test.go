package sexpr

import (
	"context"
	"errors"
	"testing"
)

func TestConvertCompact(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name: "mapping with records",
			input: "a: x y\n" +
				"b: 2012-08-06\n" +
				"items:\n" +
				"  - k: 1\n" +
				"  - k: 2\n",
			want: `((yaml:a "x y") (yaml:b (make-date 2012 08 06)) ` +
				`(yaml:items ((yaml:item (yaml:k 1)) (yaml:item (yaml:k 2)))))`,
		},
		{
			name:  "scalar kinds",
			input: "s: word\nq: \"123\"\nn: 42\nf: -3.14\nt: true\nz: null\n",
			want: `((yaml:s 'word) (yaml:q "123") (yaml:n 42) ` +
				`(yaml:f -3.14) (yaml:t #t) (yaml:z 'nil))`,
		},
		{
			name:  "nested mapping splices",
			input: "outer:\n  a: 1\n  b: 2\n",
			want:  "((yaml:outer (yaml:a 1) (yaml:b 2)))",
		},
		{
			name:  "mixed sequence",
			input: "- 1\n- two\n- k: 3\n",
			want:  "(1 'two ((yaml:k 3)))",
		},
		{
			name:  "root scalar",
			input: "plain\n",
			want:  "'plain",
		},
		{
			name:  "empty input",
			input: "",
			want:  "'nil",
		},
		{
			name:  "block scalar",
			input: "text: |\n  line1\n  line2\n",
			want:  `((yaml:text "line1\nline2\n"))`,
		},
		{
			name:  "anchor and alias",
			input: "base: &b\n  x: 1\ncopy: *b\n",
			want:  "((yaml:base (yaml:x 1)) (yaml:copy (yaml:x 1)))",
		},
		{
			name: "merge key explicit wins",
			input: "defaults: &d\n  a: 1\n  b: 2\n" +
				"conf:\n  <<: *d\n  b: 3\n",
			want: "((yaml:defaults (yaml:a 1) (yaml:b 2)) " +
				"(yaml:conf (yaml:a 1) (yaml:b 3)))",
		},
		{
			name:  "tag unwraps",
			input: "a: !custom foo\n",
			want:  "((yaml:a 'foo))",
		},
		{
			name:  "multiple documents",
			input: "---\na: 1\n---\nb: 2\n",
			want:  "(((yaml:a 1)) ((yaml:b 2)))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Convert(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("Convert: %v", err)
			}

			if got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestConvertPretty(t *testing.T) {
	t.Parallel()

	input := "a: 1\nb:\n  c: 2\n"

	want := "((yaml:a 1)\n" +
		"  (yaml:b\n" +
		"    (yaml:c 2)))"

	got, err := Convert(context.Background(), input, WithPretty(true))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	// Pretty output must be byte-stable across repeated prints.
	again, err := Convert(context.Background(), input, WithPretty(true))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if again != got {
		t.Error("repeated conversion produced different output")
	}
}

func TestConvertIndentWidth(t *testing.T) {
	t.Parallel()

	input := "a:\n  b: 1\n"

	got, err := Convert(
		context.Background(),
		input,
		WithPretty(true),
		WithIndent(4),
	)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	want := "((yaml:a\n     (yaml:b 1)))"

	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	// Non-positive widths keep the default.
	got, err = Convert(context.Background(), input, WithIndent(-1))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if got != "((yaml:a (yaml:b 1)))" {
		t.Errorf("compact output = %s", got)
	}
}

func TestConvertErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		opts  []Option
		want  error
	}{
		{
			name:  "malformed yaml",
			input: "a: [1, 2\n",
			want:  ErrParse,
		},
		{
			name:  "unknown alias",
			input: "a: *nope\n",
			want:  ErrUnknownAlias,
		},
		{
			name:  "missing variable",
			input: "a: ${UNDEFINED_NAME}\n",
			opts: []Option{
				WithEnvSubstitution(true),
				WithEnviron([]string{}),
			},
			want: ErrMissingVariable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Convert(context.Background(), tt.input, tt.opts...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	root, err := Build(context.Background(), "a: 1\n")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if root.Kind != KindForm || root.Tag != "" {
		t.Fatalf("root = %v %q, want untagged form", root.Kind, root.Tag)
	}

	if len(root.List) != 1 || root.List[0].Tag != "yaml:a" {
		t.Fatalf("unexpected children: %+v", root.List)
	}
}
