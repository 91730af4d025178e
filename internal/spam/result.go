package spam

import (
	"reviewguard/internal/models"
	"time"
)

// Clock returns the current time. Checkers take one so tests can move time.
type Clock func() time.Time

func verdict(confidence float64, reason string, spamAbove, captchaAbove float64) models.SpamCheckResult {
	return models.SpamCheckResult{
		IsSpam:          confidence > spamAbove,
		Reason:          reason,
		Confidence:      confidence,
		RequiresCaptcha: confidence > captchaAbove,
	}
}

func millis(t time.Time) int64 {
	return t.UnixMilli()
}
