package spam

import (
	"reviewguard/internal/models"
	"reviewguard/internal/structures"
	"reviewguard/internal/testutil"
	"time"
)

var epoch = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func testConfig() *structures.Config {
	return &structures.Config{
		Storage: structures.StorageConfig{Backend: "memory", KeyPrefix: "spam_protection"},
		Spam: structures.SpamConfig{
			RateLimit: structures.RateLimitConfig{
				MaxPerHour:  5,
				MaxPerDay:   10,
				WarnPerHour: 3,
				MinInterval: 10 * time.Second,
				Retention:   24 * time.Hour,
			},
			Behavior: structures.BehaviorConfig{
				Window:              time.Hour,
				MaxEntries:          10,
				RapidInterval:       10 * time.Second,
				SimilarityThreshold: 0.98,
				MinCommentLength:    10,
				IdenticalRatings:    2,
				PerfectRatings:      3,
			},
			Content: structures.ContentConfig{
				MinCommentLength: 5,
				MaxCommentLength: 500,
				UppercaseRatio:   0.8,
				Keywords:         DefaultKeywords,
			},
			Device: structures.DeviceConfig{
				Window:                30 * time.Minute,
				HistorySize:           10,
				MaxDistinctSignatures: 2,
			},
		},
	}
}

func submission(comment string, userName string, rating, cleanliness, privacy int) *models.ReviewSubmission {
	s := &models.ReviewSubmission{
		BathroomID:  "b-1",
		UserName:    userName,
		Rating:      rating,
		Cleanliness: cleanliness,
		Privacy:     privacy,
	}
	if comment != "" {
		s.Comment = &comment
	}
	return s
}

func environment(userAgent string) *models.DeviceEnvironment {
	return &models.DeviceEnvironment{
		UserAgent:      userAgent,
		Language:       "en-US",
		ScreenWidth:    1920,
		ScreenHeight:   1080,
		ColorDepth:     24,
		TimezoneOffset: -60,
		Platform:       "Linux x86_64",
		Canvas:         "c0ffee",
		WebGLRenderer:  "Mesa",
		Audio:          "124.04",
	}
}

type fixture struct {
	store  *testutil.MockStore
	logger *testutil.MockLogger
	clock  *testutil.FakeClock
	conf   *structures.Config
}

func newFixture() *fixture {
	return &fixture{
		store:  testutil.NewMockStore(),
		logger: &testutil.MockLogger{},
		clock:  testutil.NewFakeClock(epoch),
		conf:   testConfig(),
	}
}
