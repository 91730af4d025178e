package spam

import (
	"regexp"
	"reviewguard/internal/models"
	"reviewguard/internal/structures"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cloudflare/ahocorasick"
)

const (
	ReasonRepetition   = "excessive repetition detected"
	ReasonKeywords     = "suspicious keywords detected"
	ReasonUserName     = "suspicious username"
	ReasonTooShort     = "comment too short"
	ReasonTooLong      = "comment too long"
	ReasonExcessiveCap = "excessive capitalization"
)

// DefaultKeywords are the promotional markers a comment is matched against.
var DefaultKeywords = []string{"http", "www", "buy", "sell", "promo", "discount", "free", "win", "prize"}

var (
	wordToken      = regexp.MustCompile(`\w+`)
	allDigits      = regexp.MustCompile(`^\d+$`)
	letterDigits   = regexp.MustCompile(`^[a-z]\d{3,}$`)
	botishUserName = regexp.MustCompile(`test|spam|fake|bot`)
)

// Scores are kept in tenths so that thresholds compare exactly.
const (
	scoreRepetition  = 3
	scoreKeywords    = 4
	scoreUserName    = 2
	scoreTooShort    = 1
	scoreTooLong     = 2
	scoreCaps        = 2
	scoreSpamOver    = 5
	scoreCaptchaOver = 3
	scoreMax         = 10
)

// ContentAnalyzer scores the text of a single submission. It keeps no state.
type ContentAnalyzer struct {
	conf     structures.ContentConfig
	keywords *ahocorasick.Matcher
}

func NewContentAnalyzer(conf structures.ContentConfig) *ContentAnalyzer {
	keywords := conf.Keywords
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}
	return &ContentAnalyzer{conf: conf, keywords: ahocorasick.NewStringMatcher(lowered)}
}

func (ca *ContentAnalyzer) CheckContentSpam(sub *models.ReviewSubmission) models.SpamCheckResult {
	comment := sub.TrimmedComment()
	if comment == "" {
		return models.SpamCheckResult{}
	}

	score := 0
	var reasons []string
	add := func(points int, reason string) {
		score += points
		reasons = append(reasons, reason)
	}

	if hasCharRun(comment, 5) || hasRepeatedWord(comment, 3) {
		add(scoreRepetition, ReasonRepetition)
	}
	if len(ca.keywords.MatchThreadSafe([]byte(strings.ToLower(comment)))) > 0 {
		add(scoreKeywords, ReasonKeywords)
	}
	if SuspiciousUserName(sub.UserName) {
		add(scoreUserName, ReasonUserName)
	}

	length := utf8.RuneCountInString(comment)
	switch {
	case length < ca.conf.MinCommentLength:
		add(scoreTooShort, ReasonTooShort)
	case length > ca.conf.MaxCommentLength:
		add(scoreTooLong, ReasonTooLong)
	}
	if length > 10 && upperRatio(comment) > ca.conf.UppercaseRatio {
		add(scoreCaps, ReasonExcessiveCap)
	}

	res := models.SpamCheckResult{
		IsSpam:          score > scoreSpamOver,
		Confidence:      float64(min(score, scoreMax)) / 10,
		RequiresCaptcha: score > scoreCaptchaOver,
	}
	if len(reasons) > 0 {
		res.Reason = reasons[0]
	}
	return res
}

// SuspiciousUserName matches names that look generated or throwaway.
func SuspiciousUserName(name string) bool {
	lower := strings.ToLower(name)
	return allDigits.MatchString(lower) ||
		letterDigits.MatchString(lower) ||
		hasCharRun(lower, 3) ||
		botishUserName.MatchString(lower)
}

// hasCharRun reports whether any rune other than a newline repeats n or more
// times in a row.
func hasCharRun(s string, n int) bool {
	var prev rune = -1
	run := 0
	for _, r := range s {
		if r == '\n' {
			prev, run = -1, 0
			continue
		}
		if r == prev {
			run++
		} else {
			prev, run = r, 1
		}
		if run >= n {
			return true
		}
	}
	return false
}

// hasRepeatedWord reports whether the same word token occurs n or more times
// in a row with only whitespace between occurrences.
func hasRepeatedWord(s string, n int) bool {
	locs := wordToken.FindAllStringIndex(s, -1)
	run := 0
	for i, loc := range locs {
		if i > 0 {
			prev := locs[i-1]
			gap := s[prev[1]:loc[0]]
			if s[prev[0]:prev[1]] == s[loc[0]:loc[1]] && gap != "" && strings.TrimSpace(gap) == "" {
				run++
			} else {
				run = 1
			}
		} else {
			run = 1
		}
		if run >= n {
			return true
		}
	}
	return false
}

func upperRatio(s string) float64 {
	total, upper := 0, 0
	for _, r := range s {
		total++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(upper) / float64(total)
}
