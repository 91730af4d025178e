package spam

import (
	"context"
	"errors"
	"reviewguard/internal/providers"
	"reviewguard/internal/storage/interfaces"

	json "github.com/goccy/go-json"
)

const (
	keySubmissions  = "submissions"
	keyBehavior     = "behavior"
	keyFingerprints = "fingerprints"
)

// deviceState reads and writes per-device JSON records. Every failure
// degrades: an unreadable record loads as empty and a failed write is logged
// and dropped, so a broken store never fails a check.
type deviceState struct {
	store  interfaces.StoreInterface
	prefix string
	logger providers.Logger
}

func newDeviceState(store interfaces.StoreInterface, prefix string, logger providers.Logger) *deviceState {
	return &deviceState{store: store, prefix: prefix, logger: logger}
}

func (s *deviceState) key(deviceID, name string) string {
	return s.devicePrefix(deviceID) + name
}

// devicePrefix is the key prefix of one device, or of every device when
// deviceID is empty.
func (s *deviceState) devicePrefix(deviceID string) string {
	if deviceID == "" {
		return s.prefix + ":"
	}
	return s.prefix + ":" + deviceID + ":"
}

// load decodes the record at key into v and reports whether it was found
// and well-formed. v is left untouched otherwise.
func (s *deviceState) load(ctx context.Context, key string, v any) bool {
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, interfaces.ErrNotFound) {
			s.logger.Warnf(providers.TypeStore, "Read %s failed, treating as empty: %s", key, err)
		}
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		s.logger.Warnf(providers.TypeStore, "Malformed record %s, treating as empty: %s", key, err)
		return false
	}
	return true
}

func (s *deviceState) save(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.logger.Errorf(providers.TypeStore, "Encode %s failed: %s", key, err)
		return
	}
	if err := s.store.Set(ctx, key, raw); err != nil {
		s.logger.Errorf(providers.TypeStore, "Write %s failed: %s", key, err)
	}
}

func (s *deviceState) remove(ctx context.Context, key string) error {
	return s.store.Remove(ctx, key)
}

// removePrefix deletes every key under prefix and returns how many went.
func (s *deviceState) removePrefix(ctx context.Context, prefix string) (int, error) {
	keys, err := s.store.ListKeys(ctx, prefix)
	if err != nil {
		return 0, err
	}
	var errs []error
	removed := 0
	for _, k := range keys {
		if err := s.store.Remove(ctx, k); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
