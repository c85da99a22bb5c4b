package decoder

import "sync"

// StringInterner interns decoded strings keyed by their offset in the data
// section. Implementations may share one instance across goroutines (if
// thread-safe) or be handed out exclusively per decode, as the provider from
// NewPooledCacheProvider does.
type StringInterner interface {
	InternAt(offset, size uint, data []byte) string
}

// CacheOptions configure the built-in StringInterner implementations
// returned by NewSharedCacheProvider and NewPooledCacheProvider.
type CacheOptions struct {
	EntryCount   int
	MinCachedLen uint
	MaxCachedLen uint
}

// DefaultCacheOptions returns the tuning used when a zero CacheOptions is
// supplied. The bounds favor the short, highly repetitive strings (ISO
// codes, locale names) found in geolocation databases.
func DefaultCacheOptions() CacheOptions {
	return CacheOptions{
		EntryCount:   4096,
		MinCachedLen: 2,
		MaxCachedLen: 32,
	}
}

func (o CacheOptions) normalized() CacheOptions {
	def := DefaultCacheOptions()
	if o.EntryCount <= 0 {
		o.EntryCount = def.EntryCount
	}
	if o.MinCachedLen == 0 {
		o.MinCachedLen = def.MinCachedLen
	}
	if o.MaxCachedLen == 0 {
		o.MaxCachedLen = def.MaxCachedLen
	}
	if o.MaxCachedLen < o.MinCachedLen {
		o.MaxCachedLen = o.MinCachedLen
	}
	return o
}

type cacheSlot struct {
	str    string
	offset uint
}

// boundedCache is a fixed-size, offset-indexed string cache. When locked is
// true it is safe for concurrent use by multiple goroutines; otherwise it is
// meant to be used exclusively, as from a sync.Pool.
type boundedCache struct {
	entries      []cacheSlot
	entryMask    uint
	minCachedLen uint
	maxCachedLen uint
	mu           sync.RWMutex
	locked       bool
}

func newBoundedCache(opts CacheOptions, locked bool) *boundedCache {
	opts = opts.normalized()
	c := &boundedCache{
		entries:      make([]cacheSlot, opts.EntryCount),
		minCachedLen: opts.MinCachedLen,
		maxCachedLen: opts.MaxCachedLen,
		locked:       locked,
	}
	if opts.EntryCount&(opts.EntryCount-1) == 0 {
		c.entryMask = uint(opts.EntryCount - 1)
	}
	return c
}

func (c *boundedCache) index(offset uint) uint {
	if c.entryMask != 0 {
		return offset & c.entryMask
	}
	return offset % uint(len(c.entries))
}

func (c *boundedCache) InternAt(offset, size uint, data []byte) string {
	if size < c.minCachedLen || size > c.maxCachedLen {
		return string(data[offset : offset+size])
	}

	i := c.index(offset)

	if !c.locked {
		entry := c.entries[i]
		if entry.offset == offset && uint(len(entry.str)) == size {
			return entry.str
		}
		str := string(data[offset : offset+size])
		c.entries[i] = cacheSlot{str: str, offset: offset}
		return str
	}

	c.mu.RLock()
	entry := c.entries[i]
	c.mu.RUnlock()
	if entry.offset == offset && uint(len(entry.str)) == size {
		return entry.str
	}

	str := string(data[offset : offset+size])
	c.mu.Lock()
	c.entries[i] = cacheSlot{str: str, offset: offset}
	c.mu.Unlock()
	return str
}

type sharedCacheProvider struct {
	cache *boundedCache
}

func (p *sharedCacheProvider) Acquire() StringInterner { return p.cache }

func (*sharedCacheProvider) Release(StringInterner) {}

// NewSharedCacheProvider creates a CacheProvider backed by a single
// lock-protected cache shared across every caller.
func NewSharedCacheProvider(opts CacheOptions) CacheProvider {
	return &sharedCacheProvider{cache: newBoundedCache(opts, true)}
}

type pooledCacheProvider struct {
	pool *sync.Pool
}

func (p *pooledCacheProvider) Acquire() StringInterner {
	v, _ := p.pool.Get().(StringInterner)
	if v == nil {
		return newBoundedCache(DefaultCacheOptions(), false)
	}
	return v
}

func (p *pooledCacheProvider) Release(interner StringInterner) {
	if interner == nil {
		return
	}
	p.pool.Put(interner)
}

// NewPooledCacheProvider creates a CacheProvider that hands out exclusive,
// lock-free caches drawn from a sync.Pool, avoiding lock contention at the
// cost of one cache per concurrent decode.
func NewPooledCacheProvider(opts CacheOptions) CacheProvider {
	opts = opts.normalized()
	return &pooledCacheProvider{
		pool: &sync.Pool{
			New: func() any { return newBoundedCache(opts, false) },
		},
	}
}
