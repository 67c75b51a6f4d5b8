package sexpr

import (
	"context"
	"strings"
	"testing"
)

func TestConvertReader(t *testing.T) {
	ClearCache()

	const input = "a: 1\nb: two\n"

	const want = "((yaml:a 1) (yaml:b 'two))"

	got, err := ConvertReader(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("ConvertReader: %v", err)
	}

	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}

	// Second read of identical content must hit the memoized entry and
	// produce the same output.
	again, err := ConvertReader(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("ConvertReader: %v", err)
	}

	if again != got {
		t.Error("cached conversion differs from original")
	}
}

func TestConvertReaderOptionsKeyed(t *testing.T) {
	ClearCache()

	const input = "a:\n  b: 1\n"

	compact, err := ConvertReader(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("ConvertReader: %v", err)
	}

	pretty, err := ConvertReader(
		context.Background(),
		strings.NewReader(input),
		WithPretty(true),
	)
	if err != nil {
		t.Fatalf("ConvertReader: %v", err)
	}

	if compact == pretty {
		t.Error("distinct option sets must not share cache entries")
	}
}

func TestConvertReaderProcessEnvBypass(t *testing.T) {
	// Not parallel: t.Setenv mutates the process environment.
	ClearCache()

	t.Setenv("YSX_CACHE_TEST", "first")

	const input = "a: ${YSX_CACHE_TEST}\n"

	opts := []Option{WithEnvSubstitution(true)}

	got, err := ConvertReader(
		context.Background(), strings.NewReader(input), opts...,
	)
	if err != nil {
		t.Fatalf("ConvertReader: %v", err)
	}

	if got != "((yaml:a 'first))" {
		t.Errorf("got %s", got)
	}

	// The process environment can change between calls, so conversions that
	// read it are never served from cache.
	t.Setenv("YSX_CACHE_TEST", "second")

	got, err = ConvertReader(
		context.Background(), strings.NewReader(input), opts...,
	)
	if err != nil {
		t.Fatalf("ConvertReader: %v", err)
	}

	if got != "((yaml:a 'second))" {
		t.Errorf("got %s", got)
	}
}

func TestConvertReaderExplicitEnvironCached(t *testing.T) {
	// Not parallel: t.Setenv mutates the process environment.
	ClearCache()

	countEntries := func() int {
		count := 0

		renderCache.Range(func(_, _ any) bool {
			count++

			return true
		})

		return count
	}

	const input = "a: ${NAME}\n"

	// A nil environ reads the process environment, so nothing is memoized.
	t.Setenv("NAME", "proc")

	if _, err := ConvertReader(
		context.Background(), strings.NewReader(input),
		WithEnvSubstitution(true),
	); err != nil {
		t.Fatalf("ConvertReader: %v", err)
	}

	if got := countEntries(); got != 0 {
		t.Errorf("entries after process-environ conversion = %d, want 0", got)
	}

	// An explicit environ is deterministic, even when empty, so results
	// memoize.
	got, err := ConvertReader(
		context.Background(), strings.NewReader("a: ${NAME}\nb: 1\n"),
		WithEnvSubstitution(true),
		WithEnviron([]string{"NAME=given"}),
	)
	if err != nil {
		t.Fatalf("ConvertReader: %v", err)
	}

	if got != "((yaml:a 'given) (yaml:b 1))" {
		t.Errorf("got %s", got)
	}

	if _, err := ConvertReader(
		context.Background(), strings.NewReader("b: 2\n"),
		WithEnvSubstitution(true),
		WithEnviron([]string{}),
	); err != nil {
		t.Fatalf("ConvertReader: %v", err)
	}

	if got := countEntries(); got != 2 {
		t.Errorf("entries after explicit-environ conversions = %d, want 2", got)
	}
}

func TestClearCache(t *testing.T) {
	ClearCache()

	if _, err := ConvertReader(
		context.Background(), strings.NewReader("a: 1\n"),
	); err != nil {
		t.Fatalf("ConvertReader: %v", err)
	}

	ClearCache()

	count := 0

	renderCache.Range(func(_, _ any) bool {
		count++

		return true
	})

	if count != 0 {
		t.Errorf("cache entries after clear = %d, want 0", count)
	}
}
