// Package memo provides a caching proxy for pure variadic numeric functions.
package memo

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Func is a pure function of its arguments.
type Func func(args ...float64) float64

// Mult returns the product of args; the product of nothing is 1.
func Mult(args ...float64) float64 {
	a := 1.0
	for _, v := range args {
		a *= v
	}
	return a
}

// Plus returns the sum of args; the sum of nothing is 0.
func Plus(args ...float64) float64 {
	a := 0.0
	for _, v := range args {
		a += v
	}
	return a
}

// Stats counts cache hits and misses.
type Stats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

// Proxy answers repeated calls with the same arguments from a bounded cache
// instead of calling the wrapped function again.
type Proxy struct {
	name   string
	fn     Func
	cache  *lru.Cache[string, float64]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewProxy wraps fn with an LRU cache holding up to size results.
func NewProxy(name string, fn Func, size int) (*Proxy, error) {
	if fn == nil {
		return nil, fmt.Errorf("memo %s: nil function", name)
	}
	cache, err := lru.New[string, float64](size)
	if err != nil {
		return nil, fmt.Errorf("memo %s: %w", name, err)
	}
	return &Proxy{
		name:  name,
		fn:    fn,
		cache: cache,
	}, nil
}

// Call returns fn(args...), computing it only on a cache miss.
func (p *Proxy) Call(args ...float64) float64 {
	key := cacheKey(args)
	if v, ok := p.cache.Get(key); ok {
		p.hits.Add(1)
		slog.Debug("Memo cache hit", "proxy", p.name, "key", key)
		return v
	}

	p.misses.Add(1)
	v := p.fn(args...)
	p.cache.Add(key, v)
	return v
}

// Stats returns the hit and miss counts so far.
func (p *Proxy) Stats() Stats {
	return Stats{
		Hits:   p.hits.Load(),
		Misses: p.misses.Load(),
	}
}

// Len returns the number of cached results.
func (p *Proxy) Len() int {
	return p.cache.Len()
}

// Purge drops every cached result; counters are kept.
func (p *Proxy) Purge() {
	p.cache.Purge()
}

// cacheKey joins args with commas, so (1,2,3) and (1,23) never collide.
func cacheKey(args []float64) string {
	parts := make([]string, len(args))
	for i, v := range args {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}
