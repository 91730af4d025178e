package spam

import (
	"context"
	"reviewguard/internal/fingerprint"
	"reviewguard/internal/models"
	"reviewguard/internal/providers"
	"reviewguard/internal/storage/interfaces"
	"reviewguard/internal/structures"
	"strings"
	"time"
)

const (
	ReasonFingerprintChanged = "device fingerprint changed frequently"
	ReasonStorageUnavailable = "browser storage unavailable"
)

// EvaluateDevice checks the signature history of a device and returns it
// with the current signature appended, capped to the configured size.
func EvaluateDevice(history []models.SignatureEntry, signature string, unavailable []string, now time.Time, conf structures.DeviceConfig) (models.SpamCheckResult, []models.SignatureEntry) {
	nowMs := millis(now)
	cut := nowMs - conf.Window.Milliseconds()

	changed := false
	if len(history) >= 2 {
		distinct := make(map[string]struct{})
		for _, e := range history {
			if e.Timestamp > cut {
				distinct[e.Signature] = struct{}{}
			}
		}
		changed = len(distinct) > conf.MaxDistinctSignatures
	}

	confidence, reason := 0.0, ""
	if changed {
		confidence, reason = 0.6, ReasonFingerprintChanged
	}
	if len(unavailable) > 0 && 0.5 > confidence {
		confidence, reason = 0.5, ReasonStorageUnavailable
	}

	next := append(append(make([]models.SignatureEntry, 0, len(history)+1), history...),
		models.SignatureEntry{Signature: signature, Timestamp: nowMs})
	if len(next) > conf.HistorySize {
		next = next[len(next)-conf.HistorySize:]
	}
	return verdict(confidence, reason, 0.7, 0.4), next
}

// DeviceChecker watches for a device whose fingerprint keeps changing, a
// sign of scripted clients or identity cycling.
type DeviceChecker struct {
	state *deviceState
	conf  structures.DeviceConfig
	now   Clock
}

func NewDeviceChecker(store interfaces.StoreInterface, prefix string, conf structures.DeviceConfig, logger providers.Logger, now Clock) *DeviceChecker {
	return &DeviceChecker{state: newDeviceState(store, prefix, logger), conf: conf, now: now}
}

func (dc *DeviceChecker) CheckDeviceAnomalies(ctx context.Context, deviceID string, env fingerprint.Source) models.SpamCheckResult {
	key := dc.state.key(deviceID, keyFingerprints)
	var history []models.SignatureEntry
	dc.state.load(ctx, key, &history)

	signature := fingerprint.Signature(env)
	unavailable := fingerprint.StorageUnavailable(env)
	if len(unavailable) > 0 {
		dc.state.logger.Debugf(providers.TypeCheck, "Device %s reports unavailable storage: %s", deviceID, strings.Join(unavailable, ","))
	}

	res, next := EvaluateDevice(history, signature, unavailable, dc.now(), dc.conf)
	dc.state.save(ctx, key, next)
	return res
}
