package spam

import (
	"context"
	"fmt"
	"reviewguard/internal/models"
	"reviewguard/internal/providers"
	"reviewguard/internal/storage/interfaces"
	"strings"
)

// splitKey breaks "<prefix>:<device>:<name>" apart.
func (s *deviceState) splitKey(key string) (deviceID, name string, ok bool) {
	rest, found := strings.CutPrefix(key, s.prefix+":")
	if !found {
		return "", "", false
	}
	i := strings.LastIndexByte(rest, ':')
	if i <= 0 {
		return "", "", false
	}
	return rest[:i], rest[i+1:], true
}

// newestTimestamp returns the latest activity recorded under key, or 0 when
// the record is missing or unreadable.
func (c *Checker) newestTimestamp(ctx context.Context, key, name string) int64 {
	var newest int64
	switch name {
	case keySubmissions:
		var records []models.SubmissionRecord
		c.state.load(ctx, key, &records)
		for _, r := range records {
			newest = max(newest, r.Timestamp)
		}
	case keyBehavior:
		if w := c.behavior.loadWindow(ctx, key); w != nil {
			for _, e := range w.Entries {
				newest = max(newest, e.Timestamp)
			}
		}
	case keyFingerprints:
		var entries []models.SignatureEntry
		c.state.load(ctx, key, &entries)
		for _, e := range entries {
			newest = max(newest, e.Timestamp)
		}
	}
	return newest
}

// SweepIdle removes every device whose latest activity is older than the
// idle TTL. Idle devices hold nothing any check would still look at.
func (c *Checker) SweepIdle(ctx context.Context) (int, error) {
	if c.idleTTL <= 0 {
		return 0, nil
	}
	keys, err := c.state.store.ListKeys(ctx, c.state.devicePrefix(""))
	if err != nil {
		return 0, fmt.Errorf("sweep idle devices: %w", err)
	}

	newest := make(map[string]int64)
	for _, k := range keys {
		deviceID, name, ok := c.state.splitKey(k)
		if !ok {
			continue
		}
		ts := c.newestTimestamp(ctx, k, name)
		if cur, seen := newest[deviceID]; !seen || ts > cur {
			newest[deviceID] = ts
		}
	}

	cut := millis(c.now()) - c.idleTTL.Milliseconds()
	swept := 0
	for deviceID, ts := range newest {
		if ts > cut {
			continue
		}
		if err := c.ClearAllData(ctx, deviceID); err != nil {
			return swept, err
		}
		swept++
	}
	if swept > 0 {
		c.logger.Infof(providers.TypeStore, "Swept %d idle devices", swept)
	}
	return swept, nil
}

// NewSweeper exposes the checker's idle sweep to the storage scheduler.
func NewSweeper(checker CheckerInterface) interfaces.SweeperInterface {
	return checker
}
