package disasm

import (
	"context"
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"
)

// Cache memoizes Disassemble results by (object file, pc range), single-
// flighting concurrent identical requests so the child process only runs
// once per key (spec §5, §7: "memoize misses only in the affirmative" —
// only successful runs are cached, a failure is retried next call).
type Cache struct {
	opts  Options
	group singleflight.Group

	mu      sync.RWMutex
	results map[uint64][]Instruction
}

// NewCache creates an empty cache for the given adapter options.
func NewCache(opts Options) *Cache {
	return &Cache{opts: opts, results: make(map[uint64][]Instruction)}
}

// Disassemble returns the cached result for (objectFile, lo, hi) if present,
// otherwise runs the adapter — de-duplicated across concurrent callers by
// singleflight — and caches a successful result. The bool return reports
// whether the result was already cached, for callers that instrument hit
// rate.
func (c *Cache) Disassemble(ctx context.Context, objectFile string, lo, hi uint64) ([]Instruction, bool, error) {
	key := cacheKey(objectFile, lo, hi)

	c.mu.RLock()
	if cached, ok := c.results[key]; ok {
		c.mu.RUnlock()
		return cached, true, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do(fmt.Sprintf("%x", key), func() (interface{}, error) {
		instrs, err := Disassemble(ctx, objectFile, lo, hi, c.opts)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.results[key] = instrs
		c.mu.Unlock()
		return instrs, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.([]Instruction), false, nil
}

func cacheKey(objectFile string, lo, hi uint64) uint64 {
	return xxhash.Sum64String(fmt.Sprintf("%s|%x|%x", objectFile, lo, hi))
}
