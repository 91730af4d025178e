// Package spam scores review submissions with four independent heuristics
// and merges their verdicts. Each heuristic has a pure Evaluate* core; the
// checker types wrap those cores with per-device state kept in a store.
package spam

import (
	"context"
	"fmt"
	"reviewguard/internal/fingerprint"
	"reviewguard/internal/models"
	"reviewguard/internal/providers"
	"reviewguard/internal/storage/interfaces"
	"reviewguard/internal/structures"
	"strings"
	"time"
)

const (
	CheckerRateLimit = "rate_limit"
	CheckerBehavior  = "behavior"
	CheckerContent   = "content"
	CheckerDevice    = "device"
)

// aggregateCaptchaOver forces a captcha when any checker is this confident.
const aggregateCaptchaOver = 0.6

// NamedResult is the verdict of one checker.
type NamedResult struct {
	Checker string
	Result  models.SpamCheckResult
}

// Report holds the merged verdict and the per-checker verdicts behind it.
type Report struct {
	Result models.SpamCheckResult
	Checks []NamedResult
}

type CheckerInterface interface {
	Evaluate(ctx context.Context, deviceID string, sub *models.ReviewSubmission, env fingerprint.Source) Report
	CheckForSpam(ctx context.Context, deviceID string, sub *models.ReviewSubmission, env fingerprint.Source) models.SpamCheckResult
	ClearAllData(ctx context.Context, deviceID string) error
	ClearBehaviorData(ctx context.Context, deviceID string) error
	SetSimilarityThreshold(v float64)
	DisableSimilarityCheck()
	SweepIdle(ctx context.Context) (int, error)
}

type Checker struct {
	rateLimiter *RateLimiter
	behavior    *BehaviorAnalyzer
	content     *ContentAnalyzer
	device      *DeviceChecker
	state       *deviceState
	logger      providers.Logger
	now         Clock
	idleTTL     time.Duration
}

type Option func(*options)

type options struct {
	clock Clock
}

// WithClock replaces the wall clock used by every checker.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

func NewChecker(store interfaces.StoreInterface, conf *structures.Config, logger providers.Logger, opts ...Option) *Checker {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	prefix := conf.Storage.KeyPrefix
	return &Checker{
		rateLimiter: NewRateLimiter(store, prefix, conf.Spam.RateLimit, logger, o.clock),
		behavior:    NewBehaviorAnalyzer(store, prefix, conf.Spam.Behavior, logger, o.clock),
		content:     NewContentAnalyzer(conf.Spam.Content),
		device:      NewDeviceChecker(store, prefix, conf.Spam.Device, logger, o.clock),
		state:       newDeviceState(store, prefix, logger),
		logger:      logger,
		now:         o.clock,
		idleTTL:     conf.Storage.IdleTTL,
	}
}

// Combine merges checker verdicts. Confidence is the maximum, IsSpam and
// RequiresCaptcha are OR-ed, and the first non-empty reason wins.
func Combine(results ...models.SpamCheckResult) models.SpamCheckResult {
	var out models.SpamCheckResult
	for _, r := range results {
		out.Confidence = max(out.Confidence, r.Confidence)
		out.IsSpam = out.IsSpam || r.IsSpam
		out.RequiresCaptcha = out.RequiresCaptcha || r.RequiresCaptcha
		if out.Reason == "" {
			out.Reason = r.Reason
		}
	}
	out.RequiresCaptcha = out.RequiresCaptcha || out.Confidence > aggregateCaptchaOver
	return out
}

// Evaluate runs rate limiter, behavior, content and device checks in that
// order. A nil env skips the device check.
func (c *Checker) Evaluate(ctx context.Context, deviceID string, sub *models.ReviewSubmission, env fingerprint.Source) Report {
	checks := []NamedResult{
		{Checker: CheckerRateLimit, Result: c.rateLimiter.CheckRateLimit(ctx, deviceID)},
		{Checker: CheckerBehavior, Result: c.behavior.CheckBehavioralPatterns(ctx, deviceID, sub)},
		{Checker: CheckerContent, Result: c.content.CheckContentSpam(sub)},
	}
	if env != nil {
		checks = append(checks, NamedResult{Checker: CheckerDevice, Result: c.device.CheckDeviceAnomalies(ctx, deviceID, env)})
	}

	results := make([]models.SpamCheckResult, len(checks))
	for i, nr := range checks {
		results[i] = nr.Result
	}
	return Report{Result: Combine(results...), Checks: checks}
}

func (c *Checker) CheckForSpam(ctx context.Context, deviceID string, sub *models.ReviewSubmission, env fingerprint.Source) models.SpamCheckResult {
	return c.Evaluate(ctx, deviceID, sub, env).Result
}

// ClearAllData forgets everything stored for deviceID, or for every device
// when deviceID is empty.
func (c *Checker) ClearAllData(ctx context.Context, deviceID string) error {
	removed, err := c.state.removePrefix(ctx, c.state.devicePrefix(deviceID))
	if err != nil {
		return fmt.Errorf("clear data for %q: %w", deviceID, err)
	}
	c.logger.Infof(providers.TypeStore, "Cleared %d keys for device %q", removed, deviceID)
	return nil
}

// ClearBehaviorData drops only the behavior window of deviceID, or of every
// device when deviceID is empty.
func (c *Checker) ClearBehaviorData(ctx context.Context, deviceID string) error {
	keys := []string{c.state.key(deviceID, keyBehavior)}
	if deviceID == "" {
		all, err := c.state.store.ListKeys(ctx, c.state.devicePrefix(""))
		if err != nil {
			return fmt.Errorf("clear behavior data: %w", err)
		}
		keys = keys[:0]
		for _, k := range all {
			if strings.HasSuffix(k, ":"+keyBehavior) {
				keys = append(keys, k)
			}
		}
	}
	for _, k := range keys {
		if err := c.state.remove(ctx, k); err != nil {
			return fmt.Errorf("clear behavior data for %q: %w", deviceID, err)
		}
	}
	return nil
}

func (c *Checker) SetSimilarityThreshold(v float64) {
	c.behavior.SetSimilarityThreshold(v)
}

func (c *Checker) DisableSimilarityCheck() {
	c.behavior.DisableSimilarityCheck()
}

// NewCheckerProvider builds a wall-clock Checker for dependency injection.
func NewCheckerProvider(store interfaces.StoreInterface, conf *structures.Config, logger providers.Logger) CheckerInterface {
	return NewChecker(store, conf, logger)
}
