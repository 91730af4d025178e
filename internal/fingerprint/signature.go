// Package fingerprint derives a device signature from the environment a
// client reports. The signature is a pseudo-identity: it is stable for one
// environment but may change across sessions (private browsing, updates),
// and that churn is itself a signal.
package fingerprint

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ErrUnsupported is returned by a probe when the API it needs is missing.
var ErrUnsupported = errors.New("probe unsupported")

// Source is the environment a signature is computed from. The three probes
// may fail independently.
type Source interface {
	Basics() []string
	CanvasProbe() (string, error)
	WebGLProbe() (string, error)
	AudioProbe() (string, error)
	CapabilityProbes() map[string]bool
}

type probe struct {
	name string
	run  func() (string, error)
}

// Signature hashes the environment tuple. It never fails: a probe that
// errors or panics contributes a fixed sentinel instead of its value.
func Signature(src Source) string {
	parts := append([]string{}, src.Basics()...)
	for _, p := range []probe{
		{name: "canvas", run: src.CanvasProbe},
		{name: "webgl", run: src.WebGLProbe},
		{name: "audio", run: src.AudioProbe},
	} {
		parts = append(parts, runProbe(p))
	}
	return strconv.FormatUint(xxhash.Sum64String(strings.Join(parts, "|")), 36)
}

func runProbe(p probe) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = p.name + "-error"
		}
	}()
	v, err := p.run()
	switch {
	case errors.Is(err, ErrUnsupported):
		return "no-" + p.name
	case err != nil:
		return p.name + "-error"
	}
	return v
}

// StorageUnavailable lists the capability probes that explicitly reported
// false, sorted. Probes the client did not report are not counted.
func StorageUnavailable(src Source) []string {
	var out []string
	for name, ok := range src.CapabilityProbes() {
		if !ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Describe renders the tuple that Signature hashes, for debug logging.
func Describe(src Source) string {
	return fmt.Sprintf("basics=%q canvas=%s webgl=%s audio=%s",
		src.Basics(),
		runProbe(probe{name: "canvas", run: src.CanvasProbe}),
		runProbe(probe{name: "webgl", run: src.WebGLProbe}),
		runProbe(probe{name: "audio", run: src.AudioProbe}),
	)
}
