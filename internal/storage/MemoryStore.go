package storage

import (
	"context"
	"errors"
	"reviewguard/internal/storage/interfaces"
	"sort"
	"strings"
	"unsafe"

	"github.com/coocood/freecache"
)

// MemoryStore keeps device state in a freecache ring. Entries never expire,
// but freecache may evict the oldest ones once sizeMB is exhausted, and
// rejects values larger than 1/1024 of the cache.
type MemoryStore struct {
	cache *freecache.Cache
}

func NewMemoryStore(sizeMB int) *MemoryStore {
	return &MemoryStore{cache: freecache.NewCache(sizeMB * 1024 * 1024)}
}

// unsafeStringToBytes converts string to []byte without allocation.
// Safe when the result is only read, which is the case for freecache keys.
func unsafeStringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	val, err := m.cache.Get(unsafeStringToBytes(key))
	if errors.Is(err, freecache.ErrNotFound) {
		return nil, interfaces.ErrNotFound
	}
	return val, err
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	return m.cache.Set([]byte(key), value, 0)
}

func (m *MemoryStore) Remove(_ context.Context, key string) error {
	m.cache.Del(unsafeStringToBytes(key))
	return nil
}

func (m *MemoryStore) ListKeys(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	it := m.cache.NewIterator()
	for entry := it.Next(); entry != nil; entry = it.Next() {
		if k := string(entry.Key); strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
