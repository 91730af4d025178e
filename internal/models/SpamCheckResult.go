package models

type SpamCheckResult struct {
	IsSpam          bool    `json:"isSpam"`
	Reason          string  `json:"reason,omitempty"`
	Confidence      float64 `json:"confidence"`
	RequiresCaptcha bool    `json:"requiresCaptcha"`
}

// Verdict names the strongest outcome of the result for metrics and logs.
func (r SpamCheckResult) Verdict() string {
	switch {
	case r.IsSpam:
		return "spam"
	case r.RequiresCaptcha:
		return "captcha"
	default:
		return "clean"
	}
}
