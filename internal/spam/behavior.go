package spam

import (
	"context"
	"math"
	"reviewguard/internal/models"
	"reviewguard/internal/providers"
	"reviewguard/internal/storage/interfaces"
	"reviewguard/internal/structures"
	"time"
	"unicode/utf8"

	json "github.com/goccy/go-json"
	"go.uber.org/atomic"
)

const (
	ReasonRapidSubmission = "rapid submission detected"
	ReasonSimilarContent  = "similar content to a recent review"
	ReasonIdenticalRating = "identical ratings pattern detected"
	ReasonPerfectRatings  = "multiple perfect ratings detected"
)

// BehaviorReport carries the intermediate signals of one behavior check.
type BehaviorReport struct {
	Rapid      bool
	Similarity float64
	Pattern    string
}

// pruneWindow drops entries older than the window and keeps the newest max.
func pruneWindow(entries []models.BehaviorEntry, now time.Time, conf structures.BehaviorConfig) []models.BehaviorEntry {
	cut := millis(now) - conf.Window.Milliseconds()
	kept := make([]models.BehaviorEntry, 0, len(entries))
	for _, e := range entries {
		if e.Timestamp > cut {
			kept = append(kept, e)
		}
	}
	if len(kept) > conf.MaxEntries {
		kept = kept[len(kept)-conf.MaxEntries:]
	}
	return kept
}

// maxSimilarity compares comment against every stored comment long enough
// to compare, returning 0 when no pair qualifies. Pairs whose lengths differ
// by more than the threshold allows are skipped: edit distance is at least
// the length difference, so they cannot score above it.
func maxSimilarity(comment string, entries []models.BehaviorEntry, minLen int, threshold float64) float64 {
	la := utf8.RuneCountInString(comment)
	if la < minLen {
		return 0
	}
	best := 0.0
	for _, e := range entries {
		lb := utf8.RuneCountInString(e.Comment)
		if lb < minLen {
			continue
		}
		if float64(abs(la-lb)) > (1-threshold)*float64(max(la, lb)) {
			continue
		}
		best = max(best, Similarity(comment, e.Comment))
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func ratingPattern(entries []models.BehaviorEntry, rt models.RatingTuple, conf structures.BehaviorConfig) (float64, string) {
	if len(entries) < 2 {
		return 0, ""
	}
	identical, perfect := 0, 0
	for _, e := range entries {
		if e.Ratings == rt {
			identical++
		}
		if e.Ratings.IsPerfect() {
			perfect++
		}
	}
	switch {
	case identical >= conf.IdenticalRatings:
		return 0.6, ReasonIdenticalRating
	case perfect >= conf.PerfectRatings:
		return 0.5, ReasonPerfectRatings
	}
	return 0, ""
}

// EvaluateBehavior scores a submission against the recent window of its
// device and returns the window with the submission appended. A nil window
// is treated as empty.
func EvaluateBehavior(window *models.BehaviorWindow, sub *models.ReviewSubmission, now time.Time, conf structures.BehaviorConfig) (models.SpamCheckResult, *models.BehaviorWindow, BehaviorReport) {
	var entries []models.BehaviorEntry
	if window != nil {
		entries = pruneWindow(window.Entries, now, conf)
	}

	var rep BehaviorReport
	nowMs := millis(now)
	if len(entries) > 0 {
		latest := int64(math.MinInt64)
		for _, e := range entries {
			latest = max(latest, e.Timestamp)
		}
		rep.Rapid = nowMs-latest < conf.RapidInterval.Milliseconds()
	}

	comment := sub.TrimmedComment()
	rep.Similarity = maxSimilarity(comment, entries, conf.MinCommentLength, conf.SimilarityThreshold)
	patternConf, patternReason := ratingPattern(entries, sub.Ratings(), conf)
	rep.Pattern = patternReason

	confidence, reason := 0.0, ""
	if rep.Rapid {
		confidence, reason = 0.8, ReasonRapidSubmission
	}
	if rep.Similarity > conf.SimilarityThreshold && 0.7 > confidence {
		confidence, reason = 0.7, ReasonSimilarContent
	}
	if patternConf > confidence {
		confidence, reason = patternConf, patternReason
	}

	entries = append(entries, models.BehaviorEntry{
		Timestamp: nowMs,
		Comment:   comment,
		Ratings:   sub.Ratings(),
	})
	return verdict(confidence, reason, 0.6, 0.4), &models.BehaviorWindow{Entries: entries}, rep
}

// decodeWindow reads either the current single-list layout or the older
// three-list one.
func decodeWindow(raw []byte) (*models.BehaviorWindow, error) {
	var probe struct {
		Entries     json.RawMessage `json:"entries"`
		Submissions json.RawMessage `json:"submissions"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}
	if probe.Entries == nil && probe.Submissions != nil {
		var legacy models.LegacyBehaviorWindow
		if err := json.Unmarshal(raw, &legacy); err != nil {
			return nil, err
		}
		return legacy.ToWindow(), nil
	}
	var w models.BehaviorWindow
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// BehaviorAnalyzer looks for repeated or automated submission patterns in a
// short rolling window per device.
type BehaviorAnalyzer struct {
	state     *deviceState
	conf      structures.BehaviorConfig
	threshold *atomic.Float64
	now       Clock
}

func NewBehaviorAnalyzer(store interfaces.StoreInterface, prefix string, conf structures.BehaviorConfig, logger providers.Logger, now Clock) *BehaviorAnalyzer {
	return &BehaviorAnalyzer{
		state:     newDeviceState(store, prefix, logger),
		conf:      conf,
		threshold: atomic.NewFloat64(conf.SimilarityThreshold),
		now:       now,
	}
}

// SetSimilarityThreshold replaces the similarity level above which two
// comments count as the same.
func (ba *BehaviorAnalyzer) SetSimilarityThreshold(v float64) {
	ba.threshold.Store(v)
}

// DisableSimilarityCheck turns the near-duplicate signal off.
func (ba *BehaviorAnalyzer) DisableSimilarityCheck() {
	ba.threshold.Store(math.Inf(1))
}

func (ba *BehaviorAnalyzer) SimilarityThreshold() float64 {
	return ba.threshold.Load()
}

func (ba *BehaviorAnalyzer) CheckBehavioralPatterns(ctx context.Context, deviceID string, sub *models.ReviewSubmission) models.SpamCheckResult {
	key := ba.state.key(deviceID, keyBehavior)
	window := ba.loadWindow(ctx, key)

	conf := ba.conf
	conf.SimilarityThreshold = ba.threshold.Load()
	res, next, rep := EvaluateBehavior(window, sub, ba.now(), conf)
	if rep.Similarity > 0 {
		ba.state.logger.Debugf(providers.TypeCheck, "Device %s similarity %.3f (threshold %.3f)", deviceID, rep.Similarity, conf.SimilarityThreshold)
	}
	ba.state.save(ctx, key, next)
	return res
}

func (ba *BehaviorAnalyzer) loadWindow(ctx context.Context, key string) *models.BehaviorWindow {
	var raw json.RawMessage
	if !ba.state.load(ctx, key, &raw) {
		return nil
	}
	w, err := decodeWindow(raw)
	if err != nil {
		ba.state.logger.Warnf(providers.TypeStore, "Malformed behavior window %s, treating as empty: %s", key, err)
		return nil
	}
	return w
}
