package autobundle

import "sync"

// cache memoizes the result of building a value for each key. Each
// value is built at most once, even under concurrent first access,
// and build errors are cached along with the value.
type cache[K comparable, V any] struct {
	m sync.Map // map[K]*cacheEntry[V]
}

type cacheEntry[V any] struct {
	once sync.Once
	val  V
	err  error
}

// Get returns the value for k, calling build to create it if k has
// never been requested before. Concurrent callers asking for the same
// new key wait for the single call to build.
//
// build must not request k from the same cache.
func (c *cache[K, V]) Get(k K, build func(K) (V, error)) (V, error) {
	ent, ok := c.m.Load(k)
	if !ok {
		ent, _ = c.m.LoadOrStore(k, &cacheEntry[V]{})
	}
	e := ent.(*cacheEntry[V])
	e.once.Do(func() {
		e.val, e.err = build(k)
	})
	return e.val, e.err
}
