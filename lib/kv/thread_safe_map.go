package kv

import (
	"sync"

	"github.com/benz9527/rbmap/lib/infra"
	"github.com/benz9527/rbmap/lib/tree"
)

// threadSafeOrderedMap serializes the mutations by the write lock.
// Lookups and enumerations share the read lock.
type threadSafeOrderedMap[K infra.OrderedKey, V any] struct {
	lock  sync.RWMutex
	items tree.OrderedMap[K, V]
}

func (t *threadSafeOrderedMap[K, V]) Len() int64 {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.items.Len()
}

func (t *threadSafeOrderedMap[K, V]) IsDesc() bool {
	return t.items.IsDesc()
}

func (t *threadSafeOrderedMap[K, V]) IsEmpty() bool {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.items.IsEmpty()
}

// Root returns the current root view. The nodes are shared with the
// writers, reading them races with the concurrent mutations.
func (t *threadSafeOrderedMap[K, V]) Root() tree.RBNode[K, V] {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.items.Root()
}

// Foreach holds the read lock during the walk, action must not
// call the mutations of the same map.
func (t *threadSafeOrderedMap[K, V]) Foreach(action func(idx int64, color tree.RBColor, key K, val V) bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	t.items.Foreach(action)
}

func (t *threadSafeOrderedMap[K, V]) Insert(key K, val V) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.items.Insert(key, val)
}

func (t *threadSafeOrderedMap[K, V]) Remove(key K) (V, error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.items.Remove(key)
}

func (t *threadSafeOrderedMap[K, V]) Find(key K) (V, bool, error) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.items.Find(key)
}

func (t *threadSafeOrderedMap[K, V]) Get(key K) (V, bool, error) {
	return t.Find(key)
}

func (t *threadSafeOrderedMap[K, V]) Update(key K, val V) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.items.Update(key, val)
}

func (t *threadSafeOrderedMap[K, V]) Set(key K, val V) error {
	return t.Update(key, val)
}

func (t *threadSafeOrderedMap[K, V]) Clear() {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.items.Clear()
}

func (t *threadSafeOrderedMap[K, V]) Keys() []K {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.items.Keys()
}

func (t *threadSafeOrderedMap[K, V]) Values() []V {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.items.Values()
}

func (t *threadSafeOrderedMap[K, V]) String() string {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.items.String()
}

// NewThreadSafeOrderedMap builds the ordered map by the options and
// guards it by a RWMutex.
func NewThreadSafeOrderedMap[K infra.OrderedKey, V any](opts ...tree.OrderedMapOpt[K, V]) tree.OrderedMap[K, V] {
	return &threadSafeOrderedMap[K, V]{
		items: tree.NewOrderedMap[K, V](opts...),
	}
}
