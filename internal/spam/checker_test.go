package spam

import (
	"context"
	"errors"
	"fmt"
	"reviewguard/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChecker(f *fixture) *Checker {
	return NewChecker(f.store, f.conf, f.logger, WithClock(f.clock.Now))
}

func TestCombine(t *testing.T) {
	tests := []struct {
		name string
		in   []models.SpamCheckResult
		want models.SpamCheckResult
	}{
		{name: "nothing", want: models.SpamCheckResult{}},
		{
			name: "first reason wins",
			in: []models.SpamCheckResult{
				{Confidence: 0.5, Reason: ReasonHighFrequency, RequiresCaptcha: true},
				{Confidence: 0.8, Reason: ReasonRapidSubmission, IsSpam: true, RequiresCaptcha: true},
			},
			want: models.SpamCheckResult{Confidence: 0.8, Reason: ReasonHighFrequency, IsSpam: true, RequiresCaptcha: true},
		},
		{
			name: "confidence above aggregate captcha threshold",
			in:   []models.SpamCheckResult{{Confidence: 0.65, Reason: "x"}},
			want: models.SpamCheckResult{Confidence: 0.65, Reason: "x", RequiresCaptcha: true},
		},
		{
			name: "low confidence without captcha",
			in:   []models.SpamCheckResult{{}, {Confidence: 0.2, Reason: ReasonUserName}},
			want: models.SpamCheckResult{Confidence: 0.2, Reason: ReasonUserName},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Combine(tt.in...))
		})
	}
}

func TestChecker_CleanSubmission(t *testing.T) {
	f := newFixture()
	res := newChecker(f).CheckForSpam(context.Background(), "dev1", submission(greatBathroom, "alice", 4, 3, 5), environment("agent/1"))
	assert.Equal(t, models.SpamCheckResult{}, res)

	for _, k := range []string{"submissions", "behavior", "fingerprints"} {
		assert.Contains(t, f.store.Data, "spam_protection:dev1:"+k)
	}
}

func TestChecker_ReportListsEveryChecker(t *testing.T) {
	f := newFixture()
	rep := newChecker(f).Evaluate(context.Background(), "dev1", submission(greatBathroom, "alice", 4, 3, 5), environment("agent/1"))
	require.Len(t, rep.Checks, 4)
	assert.Equal(t, []string{CheckerRateLimit, CheckerBehavior, CheckerContent, CheckerDevice},
		[]string{rep.Checks[0].Checker, rep.Checks[1].Checker, rep.Checks[2].Checker, rep.Checks[3].Checker})
}

func TestChecker_NilEnvironmentSkipsDevice(t *testing.T) {
	f := newFixture()
	rep := newChecker(f).Evaluate(context.Background(), "dev1", submission(greatBathroom, "alice", 4, 3, 5), nil)
	assert.Len(t, rep.Checks, 3)
	assert.NotContains(t, f.store.Data, "spam_protection:dev1:fingerprints")
}

func TestChecker_SixthSubmissionInAnHour(t *testing.T) {
	f := newFixture()
	c := newChecker(f)
	ctx := context.Background()

	var res models.SpamCheckResult
	for i := 1; i <= 6; i++ {
		sub := submission(fmt.Sprintf("Review number %d about stall %d", i, i*7), "alice", i%5+1, (i+1)%5+1, (i+2)%5+1)
		res = c.CheckForSpam(ctx, "dev1", sub, environment("agent/1"))
		f.clock.Advance(11 * time.Second)
	}
	assert.True(t, res.IsSpam)
	assert.Equal(t, ReasonHourlyLimit, res.Reason)
	assert.InDelta(t, 0.9, res.Confidence, 1e-9)
	assert.True(t, res.RequiresCaptcha)
}

func TestChecker_ContentReasonAfterQuietCheckers(t *testing.T) {
	f := newFixture()
	res := newChecker(f).CheckForSpam(context.Background(), "dev1", submission("Nice and quiet place", "12345", 4, 3, 5), environment("agent/1"))
	assert.Equal(t, ReasonUserName, res.Reason)
	assert.InDelta(t, 0.2, res.Confidence, 1e-9)
	assert.False(t, res.RequiresCaptcha)
}

func TestChecker_DevicesAreIndependent(t *testing.T) {
	f := newFixture()
	c := newChecker(f)
	ctx := context.Background()

	c.CheckForSpam(ctx, "dev1", submission(greatBathroom, "alice", 4, 3, 5), environment("agent/1"))
	res := c.CheckForSpam(ctx, "dev2", submission(greatBathroom, "bob", 4, 3, 5), environment("agent/2"))
	assert.Equal(t, models.SpamCheckResult{}, res)
}

func TestChecker_ClearAllData(t *testing.T) {
	f := newFixture()
	c := newChecker(f)
	ctx := context.Background()

	c.CheckForSpam(ctx, "dev1", submission(greatBathroom, "alice", 4, 3, 5), environment("agent/1"))
	c.CheckForSpam(ctx, "dev2", submission(greatBathroom, "bob", 4, 3, 5), environment("agent/2"))
	f.store.Data["other:dev1:submissions"] = []byte(`[]`)

	require.NoError(t, c.ClearAllData(ctx, "dev1"))
	keys, err := f.store.ListKeys(ctx, "spam_protection:")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"spam_protection:dev2:behavior",
		"spam_protection:dev2:fingerprints",
		"spam_protection:dev2:submissions",
	}, keys)

	// cleared device starts fresh
	res := c.CheckForSpam(ctx, "dev1", submission(greatBathroom, "alice", 4, 3, 5), environment("agent/1"))
	assert.Equal(t, models.SpamCheckResult{}, res)

	require.NoError(t, c.ClearAllData(ctx, ""))
	keys, err = f.store.ListKeys(ctx, "spam_protection:")
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.Contains(t, f.store.Data, "other:dev1:submissions")
}

func TestChecker_ClearAllDataListFailure(t *testing.T) {
	f := newFixture()
	f.store.ListErr = errors.New("down")
	assert.Error(t, newChecker(f).ClearAllData(context.Background(), "dev1"))
}

func TestChecker_ClearBehaviorData(t *testing.T) {
	f := newFixture()
	c := newChecker(f)
	ctx := context.Background()

	c.CheckForSpam(ctx, "dev1", submission(greatBathroom, "alice", 4, 3, 5), environment("agent/1"))
	c.CheckForSpam(ctx, "dev2", submission(greatBathroom, "bob", 4, 3, 5), environment("agent/1"))

	require.NoError(t, c.ClearBehaviorData(ctx, "dev1"))
	assert.NotContains(t, f.store.Data, "spam_protection:dev1:behavior")
	assert.Contains(t, f.store.Data, "spam_protection:dev1:submissions")
	assert.Contains(t, f.store.Data, "spam_protection:dev2:behavior")

	require.NoError(t, c.ClearBehaviorData(ctx, ""))
	assert.NotContains(t, f.store.Data, "spam_protection:dev2:behavior")
	assert.Contains(t, f.store.Data, "spam_protection:dev2:fingerprints")
}

func TestChecker_SimilarityHooks(t *testing.T) {
	f := newFixture()
	c := newChecker(f)
	c.DisableSimilarityCheck()
	ctx := context.Background()

	c.CheckForSpam(ctx, "dev1", submission(greatBathroom, "alice", 4, 3, 5), environment("agent/1"))
	f.clock.Advance(11 * time.Second)
	res := c.CheckForSpam(ctx, "dev1", submission(greatBathroom, "alice", 2, 3, 1), environment("agent/1"))
	assert.False(t, res.IsSpam)

	c.SetSimilarityThreshold(0.98)
	f.clock.Advance(11 * time.Second)
	res = c.CheckForSpam(ctx, "dev1", submission(greatBathroom, "alice", 1, 1, 2), environment("agent/1"))
	assert.True(t, res.IsSpam)
	assert.Equal(t, ReasonSimilarContent, res.Reason)
}

func TestChecker_UnavailableStoreIsPermissive(t *testing.T) {
	f := newFixture()
	f.store.GetErr = errors.New("storage disabled")
	f.store.SetErr = errors.New("storage disabled")
	c := newChecker(f)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res := c.CheckForSpam(ctx, "dev1", submission(greatBathroom, "alice", 4, 3, 5), environment("agent/1"))
		assert.Equal(t, models.SpamCheckResult{}, res)
	}
	assert.Positive(t, f.logger.Count("error"))
}
