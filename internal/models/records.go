package models

import (
	"strings"

	"github.com/spf13/cast"
)

// SubmissionRecord marks one submission attempt. Timestamp is unix millis.
type SubmissionRecord struct {
	Timestamp int64 `json:"timestamp"`
}

type RatingTuple struct {
	Rating      int `json:"rating"`
	Cleanliness int `json:"cleanliness"`
	Privacy     int `json:"privacy"`
}

func (rt RatingTuple) IsPerfect() bool {
	return rt.Rating == 5 && rt.Cleanliness == 5 && rt.Privacy == 5
}

// BehaviorEntry keeps a submission's time, comment and ratings together so
// that pruning can never misalign them.
type BehaviorEntry struct {
	Timestamp int64       `json:"timestamp"`
	Comment   string      `json:"comment"`
	Ratings   RatingTuple `json:"ratings"`
}

type BehaviorWindow struct {
	Entries []BehaviorEntry `json:"entries"`
}

// LegacyBehaviorWindow is the older three-list layout where the lists are
// related by index only. It was written by a form-driven client, so numbers
// may have been stored as strings and comments as null.
type LegacyBehaviorWindow struct {
	Submissions    []LegacySubmission `json:"submissions"`
	RecentComments []*string          `json:"recentComments"`
	RecentRatings  []LegacyRatings    `json:"recentRatings"`
}

type LegacySubmission struct {
	Timestamp any `json:"timestamp"`
}

type LegacyRatings struct {
	Rating      any `json:"rating"`
	Cleanliness any `json:"cleanliness"`
	Privacy     any `json:"privacy"`
}

// Tuple converts leniently; a value that is not a number becomes 0.
func (r LegacyRatings) Tuple() RatingTuple {
	return RatingTuple{
		Rating:      cast.ToInt(r.Rating),
		Cleanliness: cast.ToInt(r.Cleanliness),
		Privacy:     cast.ToInt(r.Privacy),
	}
}

// ToWindow zips the legacy lists by index. Entries beyond the shortest
// list lose their comment or ratings rather than borrowing a neighbour's,
// and submissions without a usable timestamp are dropped with their pair.
func (l *LegacyBehaviorWindow) ToWindow() *BehaviorWindow {
	w := &BehaviorWindow{Entries: make([]BehaviorEntry, 0, len(l.Submissions))}
	for i, s := range l.Submissions {
		ts, err := cast.ToInt64E(s.Timestamp)
		if err != nil || ts <= 0 {
			continue
		}
		e := BehaviorEntry{Timestamp: ts}
		if i < len(l.RecentComments) && l.RecentComments[i] != nil {
			e.Comment = strings.TrimSpace(*l.RecentComments[i])
		}
		if i < len(l.RecentRatings) {
			e.Ratings = l.RecentRatings[i].Tuple()
		}
		w.Entries = append(w.Entries, e)
	}
	return w
}

type SignatureEntry struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
}
