package storage

import (
	"fmt"
	"reviewguard/internal/providers"
	"reviewguard/internal/storage/interfaces"
	"reviewguard/internal/structures"
)

// NewStoreProvider builds the backend selected by storage.backend and wraps
// it with hit/miss instrumentation.
func NewStoreProvider(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, compressor interfaces.CompressorInterface) (interfaces.StoreInterface, error) {
	var inner interfaces.StoreInterface
	st := conf.Storage

	switch st.Backend {
	case "memory":
		inner = NewMemoryStore(st.Memory.Size)
		logger.Infof(providers.TypeStore, "Memory store initialized: %dMB", st.Memory.Size)
	case "file":
		inner = NewFileStore(st.File.Path, compressor, logger)
		logger.Infof(providers.TypeStore, "File store initialized: %s, save every %s", st.File.Path, st.File.SaveInterval)
	case "redis":
		rs, err := NewRedisStore(st.Redis.Addr, st.Redis.Password, st.Redis.DB, logger)
		if err != nil {
			return nil, err
		}
		inner = rs
	default:
		return nil, fmt.Errorf("unknown storage backend %q", st.Backend)
	}

	return NewInstrumentedStore(inner, metrics), nil
}
