package providers

import (
	"fmt"
	"reviewguard/internal/structures"
	"time"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

// Validate checks struct tags first, then the backend-specific settings
// that tags cannot express.
func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}

	st := cv.conf.Storage
	switch st.Backend {
	case "file":
		if st.File.Path == "" {
			return fmt.Errorf("storage.file.path is required for the file backend")
		}
		if st.File.SaveInterval <= 0 {
			return fmt.Errorf("storage.file.saveInterval must be positive")
		}
	case "redis":
		if st.Redis.Addr == "" {
			return fmt.Errorf("storage.redis.addr is required for the redis backend")
		}
	case "memory":
		if st.Memory.Size <= 0 {
			return fmt.Errorf("storage.memory.size must be positive")
		}
	}

	if cv.conf.Spam.RateLimit.Retention < 24*time.Hour {
		return fmt.Errorf("spam.rateLimit.retention must cover at least 24h")
	}
	if st.IdleTTL > 0 && st.IdleTTL < cv.conf.Spam.RateLimit.Retention {
		return fmt.Errorf("storage.idleTTL must not be shorter than spam.rateLimit.retention")
	}

	threshold := cv.conf.Spam.Behavior.SimilarityThreshold
	if threshold < 0 {
		return fmt.Errorf("spam.behavior.similarityThreshold must not be negative")
	}
	ratio := cv.conf.Spam.Content.UppercaseRatio
	if ratio < 0 || ratio > 1 {
		return fmt.Errorf("spam.content.uppercaseRatio must be within [0,1]")
	}
	return nil
}
