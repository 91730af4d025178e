package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"reviewguard/internal/fingerprint"
	"reviewguard/internal/models"
	"reviewguard/internal/providers"
	"reviewguard/internal/spam"
	"unicode/utf8"

	"go.uber.org/atomic"
)

var (
	ErrInvalidDeviceID = errors.New("invalid device id")
	ErrInvalidScope    = errors.New("invalid reset scope")
	ErrCommentTooLong  = errors.New("comment too long")
)

// MaxCommentRunes bounds the trimmed comment a check accepts.
const MaxCommentRunes = 2000

var deviceIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]{1,128}$`)

// Counters is a snapshot of the verdicts served since start.
type Counters struct {
	Checks  uint64 `json:"checks"`
	Flagged uint64 `json:"flagged"`
	Captcha uint64 `json:"captcha"`
}

type SpamServiceInterface interface {
	Check(ctx context.Context, req *models.CheckRequest) (models.SpamCheckResult, error)
	Reset(ctx context.Context, req *models.ResetRequest) error
	Counters() Counters
}

type SpamService struct {
	checker spam.CheckerInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	locks   *keyedMutex

	checks  *atomic.Uint64
	flagged *atomic.Uint64
	captcha *atomic.Uint64
}

// ResolveDeviceID returns the id a check is keyed on: the client's own id
// when it sent one, the environment signature otherwise.
func ResolveDeviceID(req *models.CheckRequest) (string, error) {
	if req.DeviceID == "" {
		return fingerprint.Signature(&req.Environment), nil
	}
	if !deviceIDPattern.MatchString(req.DeviceID) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDeviceID, req.DeviceID)
	}
	return req.DeviceID, nil
}

// Check runs every spam check for the request. Checks of the same device
// are serialised so their read-modify-write cycles cannot interleave.
func (ss *SpamService) Check(ctx context.Context, req *models.CheckRequest) (models.SpamCheckResult, error) {
	deviceID, err := ResolveDeviceID(req)
	if err != nil {
		return models.SpamCheckResult{}, err
	}
	if n := utf8.RuneCountInString(req.Submission.TrimmedComment()); n > MaxCommentRunes {
		return models.SpamCheckResult{}, fmt.Errorf("%w: %d characters, at most %d", ErrCommentTooLong, n, MaxCommentRunes)
	}

	unlock := ss.locks.Lock(deviceID)
	rep := ss.checker.Evaluate(ctx, deviceID, &req.Submission, &req.Environment)
	unlock()

	for _, c := range rep.Checks {
		ss.metrics.IncVerdict(c.Checker, c.Result.Verdict())
		ss.metrics.ObserveConfidence(c.Checker, c.Result.Confidence)
	}
	res := rep.Result
	ss.metrics.IncVerdict("aggregate", res.Verdict())

	ss.checks.Inc()
	switch {
	case res.IsSpam:
		ss.flagged.Inc()
		ss.logger.Infof(providers.TypeCheck, "Device %s flagged (%.2f): %s", deviceID, res.Confidence, res.Reason)
	case res.RequiresCaptcha:
		ss.captcha.Inc()
		ss.logger.Infof(providers.TypeCheck, "Device %s needs captcha (%.2f): %s", deviceID, res.Confidence, res.Reason)
	default:
		ss.logger.Debugf(providers.TypeCheck, "Device %s clean (%.2f) %s", deviceID, res.Confidence, fingerprint.Describe(&req.Environment))
	}
	return res, nil
}

func (ss *SpamService) Reset(ctx context.Context, req *models.ResetRequest) error {
	if req.DeviceID != "" && !deviceIDPattern.MatchString(req.DeviceID) {
		return fmt.Errorf("%w: %q", ErrInvalidDeviceID, req.DeviceID)
	}
	if req.DeviceID == "" {
		ss.logger.Warnf(providers.TypeApp, "Reset of every device requested (scope %q)", req.Scope)
	} else {
		defer ss.locks.Lock(req.DeviceID)()
	}

	switch req.Scope {
	case models.ResetAll, "":
		return ss.checker.ClearAllData(ctx, req.DeviceID)
	case models.ResetBehavior:
		return ss.checker.ClearBehaviorData(ctx, req.DeviceID)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidScope, req.Scope)
	}
}

func (ss *SpamService) Counters() Counters {
	return Counters{
		Checks:  ss.checks.Load(),
		Flagged: ss.flagged.Load(),
		Captcha: ss.captcha.Load(),
	}
}

func NewSpamService(checker spam.CheckerInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) SpamServiceInterface {
	return &SpamService{
		checker: checker,
		logger:  logger,
		metrics: metrics,
		locks:   newKeyedMutex(),
		checks:  atomic.NewUint64(0),
		flagged: atomic.NewUint64(0),
		captcha: atomic.NewUint64(0),
	}
}
