// Package cache holds serialized GET responses.
//
// Entries are never deleted on write. Each entity has a generation counter
// that is part of every key; invalidating an entity bumps its counter so
// older entries can no longer be addressed and expire by TTL.
package cache

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// UnknownGeneration is reported when a backend cannot read a generation.
const UnknownGeneration int64 = -1

// Store is implemented by the memory, redis and no-op backends.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Generation(ctx context.Context, entity string) int64
	Invalidate(ctx context.Context, entities ...string) error
	Close() error
}

// Key derives a cache key from the generations of the entities a response
// depends on, the request path and its query in canonical order. It returns
// "" when any generation is unknown; such requests must bypass the cache.
func Key(ctx context.Context, s Store, entities []string, path string, query url.Values) string {
	var b strings.Builder
	for _, e := range entities {
		gen := s.Generation(ctx, e)
		if gen == UnknownGeneration {
			return ""
		}
		b.WriteString(e)
		b.WriteByte('@')
		b.WriteString(strconv.FormatInt(gen, 10))
		b.WriteByte('|')
	}
	b.WriteString(path)
	if q := Canonical(query); q != "" {
		b.WriteByte('?')
		b.WriteString(q)
	}
	return b.String()
}

// Canonical encodes query with keys and each key's values sorted.
func Canonical(query url.Values) string {
	if len(query) == 0 {
		return ""
	}
	sorted := make(url.Values, len(query))
	for k, vs := range query {
		cp := append([]string(nil), vs...)
		sort.Strings(cp)
		sorted[k] = cp
	}
	return sorted.Encode()
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool)         { return nil, false }
func (Nop) Set(context.Context, string, []byte, time.Duration) {}
func (Nop) Generation(context.Context, string) int64           { return 0 }
func (Nop) Invalidate(context.Context, ...string) error        { return nil }
func (Nop) Close() error                                       { return nil }
