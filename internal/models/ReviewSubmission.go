package models

import "strings"

// ReviewSubmission is a review as composed by the client, before it is
// committed to the bathroom catalogue.
type ReviewSubmission struct {
	BathroomID     string  `json:"bathroomId" validate:"required"`
	Comment        *string `json:"comment"`
	UserName       string  `json:"userName" validate:"required"`
	Rating         int     `json:"rating" validate:"required|min:1|max:5"`
	Cleanliness    int     `json:"cleanliness" validate:"required|min:1|max:5"`
	Privacy        int     `json:"privacy" validate:"required|min:1|max:5"`
	PaperAvailable bool    `json:"paperAvailable"`
}

// CommentText returns the comment or an empty string when none was given.
func (s *ReviewSubmission) CommentText() string {
	if s == nil || s.Comment == nil {
		return ""
	}
	return *s.Comment
}

// TrimmedComment returns the comment without surrounding whitespace.
func (s *ReviewSubmission) TrimmedComment() string {
	return strings.TrimSpace(s.CommentText())
}

func (s *ReviewSubmission) Ratings() RatingTuple {
	return RatingTuple{Rating: s.Rating, Cleanliness: s.Cleanliness, Privacy: s.Privacy}
}

// CheckRequest is the payload of a spam check call.
type CheckRequest struct {
	DeviceID    string            `json:"deviceId"`
	Submission  ReviewSubmission  `json:"submission"`
	Environment DeviceEnvironment `json:"environment"`
}

type ResetScope string

const (
	ResetAll      ResetScope = "all"
	ResetBehavior ResetScope = "behavior"
)

type ResetRequest struct {
	DeviceID string     `json:"deviceId"`
	Scope    ResetScope `json:"scope"`
}
