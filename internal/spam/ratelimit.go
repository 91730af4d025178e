package spam

import (
	"context"
	"math"
	"reviewguard/internal/models"
	"reviewguard/internal/providers"
	"reviewguard/internal/storage/interfaces"
	"reviewguard/internal/structures"
	"time"
)

const (
	ReasonHourlyLimit    = "too many reviews in the last hour"
	ReasonDailyLimit     = "too many reviews in the last 24 hours"
	ReasonTooQuick       = "reviews submitted too quickly"
	ReasonHighFrequency  = "high submission frequency detected"
	rateLimitCaptchaOver = 0.4
)

const dayMillis = int64(24 * time.Hour / time.Millisecond)

// EvaluateRateLimit decides on the pruned submission history of a device.
// It returns the verdict, the records still inside the retention window and
// whether pruning dropped anything. The current submission is not appended.
func EvaluateRateLimit(records []models.SubmissionRecord, now time.Time, conf structures.RateLimitConfig) (models.SpamCheckResult, []models.SubmissionRecord, bool) {
	nowMs := millis(now)
	retentionCut := nowMs - conf.Retention.Milliseconds()
	hourCut := nowMs - time.Hour.Milliseconds()
	dayCut := nowMs - dayMillis

	kept := make([]models.SubmissionRecord, 0, len(records)+1)
	hourly, daily, latest := 0, 0, int64(math.MinInt64)
	for _, r := range records {
		if r.Timestamp <= retentionCut {
			continue
		}
		kept = append(kept, r)
		if r.Timestamp > hourCut {
			hourly++
		}
		if r.Timestamp > dayCut {
			daily++
		}
		latest = max(latest, r.Timestamp)
	}
	shrunk := len(kept) < len(records)

	sinceLast := time.Duration(math.MaxInt64)
	if len(kept) > 0 {
		sinceLast = time.Duration(nowMs-latest) * time.Millisecond
	}

	var res models.SpamCheckResult
	switch {
	case hourly >= conf.MaxPerHour:
		res = models.SpamCheckResult{IsSpam: true, Confidence: 0.9, Reason: ReasonHourlyLimit}
	case daily >= conf.MaxPerDay:
		res = models.SpamCheckResult{IsSpam: true, Confidence: 0.8, Reason: ReasonDailyLimit}
	case sinceLast < conf.MinInterval:
		res = models.SpamCheckResult{IsSpam: true, Confidence: 0.7, Reason: ReasonTooQuick}
	case hourly >= conf.WarnPerHour:
		res = models.SpamCheckResult{Confidence: 0.5, Reason: ReasonHighFrequency}
	}
	res.RequiresCaptcha = res.Confidence > rateLimitCaptchaOver
	return res, kept, shrunk
}

// RateLimiter caps how often one device may submit. Every call counts as a
// submission attempt, whatever the verdict.
type RateLimiter struct {
	state *deviceState
	conf  structures.RateLimitConfig
	now   Clock
}

func NewRateLimiter(store interfaces.StoreInterface, prefix string, conf structures.RateLimitConfig, logger providers.Logger, now Clock) *RateLimiter {
	return &RateLimiter{state: newDeviceState(store, prefix, logger), conf: conf, now: now}
}

func (rl *RateLimiter) CheckRateLimit(ctx context.Context, deviceID string) models.SpamCheckResult {
	key := rl.state.key(deviceID, keySubmissions)
	var records []models.SubmissionRecord
	rl.state.load(ctx, key, &records)

	now := rl.now()
	res, kept, _ := EvaluateRateLimit(records, now, rl.conf)
	kept = append(kept, models.SubmissionRecord{Timestamp: millis(now)})
	rl.state.save(ctx, key, kept)
	return res
}
