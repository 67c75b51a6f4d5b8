package sexpr

import (
	"bytes"
	"context"
	"encoding/gob"
	"io"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// renderCache memoizes rendered output keyed by content and option hashes.
// Values are *cacheEntry.
var renderCache sync.Map

type cacheEntry struct {
	once sync.Once
	text string
	err  error
}

// ConvertReader reads an entire YAML stream from r and converts it.
//
// Input is read through an asynchronous readahead buffer, and rendered
// output is memoized by a hash of the content and the option set, so
// repeated conversions of identical sources do not rebuild the tree. The
// cache is skipped when substitution draws from the process environment,
// since that environment can change between calls.
func ConvertReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (string, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadInput.Wrap(err)
	}

	o := makeOptions(opts...)

	// A nil environ reads the mutable process environment; an explicit
	// environ, even an empty one, is deterministic and safe to memoize.
	if o.substitute && o.environ == nil {
		return Convert(ctx, string(data), opts...)
	}

	key := cacheKey(data, o)

	value, _ := renderCache.LoadOrStore(key, &cacheEntry{})
	entry := value.(*cacheEntry)

	entry.once.Do(func() {
		entry.text, entry.err = Convert(ctx, string(data), opts...)
	})

	return entry.text, entry.err
}

// ClearCache discards all memoized conversions.
func ClearCache() {
	renderCache.Range(func(key, _ any) bool {
		renderCache.Delete(key)

		return true
	})
}

// cacheKey combines the content hash with the option hash in base 36.
func cacheKey(data []byte, o options) string {
	h := xxh3.Hash(data) ^ hashOptions(o)

	return strconv.FormatUint(h, 36)
}

// hashOptions hashes every option that affects rendered output.
// The logger is excluded: it never changes the output text.
func hashOptions(o options) uint64 {
	var buf bytes.Buffer

	_ = gob.NewEncoder(&buf).Encode(struct {
		Environ    []string
		Indent     int
		Pretty     bool
		Substitute bool
	}{
		Environ:    o.environ,
		Indent:     o.effectiveIndent(),
		Pretty:     o.pretty,
		Substitute: o.substitute,
	})

	return xxh3.Hash(buf.Bytes())
}
