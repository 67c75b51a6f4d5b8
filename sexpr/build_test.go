package sexpr

import (
	"context"
	"errors"
	"testing"
)

func TestBuildMergeKeySequence(t *testing.T) {
	t.Parallel()

	input := "one: &a\n  x: 1\n" +
		"two: &b\n  x: 9\n  y: 2\n" +
		"conf:\n  <<: [*a, *b]\n  z: 3\n"

	// The first merge source wins for duplicate keys across sources.
	want := "((yaml:one (yaml:x 1)) " +
		"(yaml:two (yaml:x 9) (yaml:y 2)) " +
		"(yaml:conf (yaml:x 1) (yaml:y 2) (yaml:z 3)))"

	got, err := Convert(context.Background(), input)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestBuildNonStringKeys(t *testing.T) {
	t.Parallel()

	got, err := Convert(context.Background(), "1: a\ntrue: b\n")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	want := "((yaml:1 'a) (yaml:true 'b))"

	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestBuildAliasScalar(t *testing.T) {
	t.Parallel()

	got, err := Convert(context.Background(), "a: &v 42\nb: *v\n")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	want := "((yaml:a 42) (yaml:b 42))"

	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestBuildAnchorScopedPerDocument(t *testing.T) {
	t.Parallel()

	// The anchor lives in the first document only.
	_, err := Convert(context.Background(), "---\na: &v 1\n---\nb: *v\n")
	if !errors.Is(err, ErrUnknownAlias) {
		t.Fatalf("err = %v, want %v", err, ErrUnknownAlias)
	}
}

func TestBuildSequenceOfSequences(t *testing.T) {
	t.Parallel()

	got, err := Convert(context.Background(), "m:\n  - [1, 2]\n  - [3, 4]\n")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	want := "((yaml:m ((1 2) (3 4))))"

	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestBuildEmptySequence(t *testing.T) {
	t.Parallel()

	got, err := Convert(context.Background(), "empty: []\n")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	// An empty sequence is not a record sequence.
	want := "((yaml:empty ()))"

	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
