package storage

import (
	"context"
	"reviewguard/internal/providers"
	"reviewguard/internal/storage/interfaces"
)

// InstrumentedStore wraps a interfaces.StoreInterface and counts read hits and misses.
type InstrumentedStore struct {
	inner   interfaces.StoreInterface
	metrics providers.MetricsProviderInterface
}

func NewInstrumentedStore(inner interfaces.StoreInterface, metrics providers.MetricsProviderInterface) *InstrumentedStore {
	return &InstrumentedStore{inner: inner, metrics: metrics}
}

func (s *InstrumentedStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.inner.Get(ctx, key)
	if err == nil {
		s.metrics.IncStoreHits()
	} else {
		s.metrics.IncStoreMisses()
	}
	return val, err
}

func (s *InstrumentedStore) Set(ctx context.Context, key string, value []byte) error {
	return s.inner.Set(ctx, key, value)
}

func (s *InstrumentedStore) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, key)
}

func (s *InstrumentedStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.ListKeys(ctx, prefix)
}

// Unwrap exposes the wrapped store, e.g. for the scheduler to find a Persister.
func (s *InstrumentedStore) Unwrap() interfaces.StoreInterface {
	return s.inner
}
