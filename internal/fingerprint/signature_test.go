package fingerprint

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSource struct {
	basics       []string
	canvas       func() (string, error)
	webgl        func() (string, error)
	audio        func() (string, error)
	capabilities map[string]bool
}

func value(v string) func() (string, error) {
	return func() (string, error) { return v, nil }
}

func failing(err error) func() (string, error) {
	return func() (string, error) { return "", err }
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		basics: []string{"Mozilla/5.0", "en-US", "1920x1080", "24", "-120", "MacIntel", "8", "8"},
		canvas: value("data:image/png;base64,AAAA"),
		webgl:  value("ANGLE (Apple M1)"),
		audio:  value("124.0434"),
	}
}

func (f *fakeSource) Basics() []string                  { return f.basics }
func (f *fakeSource) CanvasProbe() (string, error)      { return f.canvas() }
func (f *fakeSource) WebGLProbe() (string, error)       { return f.webgl() }
func (f *fakeSource) AudioProbe() (string, error)       { return f.audio() }
func (f *fakeSource) CapabilityProbes() map[string]bool { return f.capabilities }

func TestSignature_Deterministic(t *testing.T) {
	a := Signature(newFakeSource())
	b := Signature(newFakeSource())
	assert.NotEmpty(t, a)
	assert.Equal(t, a, b)
}

func TestSignature_ChangesWithEnvironment(t *testing.T) {
	base := Signature(newFakeSource())

	other := newFakeSource()
	other.basics[1] = "de-DE"
	assert.NotEqual(t, base, Signature(other))

	other = newFakeSource()
	other.canvas = value("data:image/png;base64,BBBB")
	assert.NotEqual(t, base, Signature(other))
}

func TestSignature_ProbeErrorsUseSentinels(t *testing.T) {
	src := newFakeSource()
	src.canvas = failing(errors.New("SecurityError"))
	src.webgl = failing(ErrUnsupported)

	withErrors := Signature(src)

	sentinel := newFakeSource()
	sentinel.canvas = value("canvas-error")
	sentinel.webgl = value("no-webgl")
	assert.Equal(t, Signature(sentinel), withErrors)
}

func TestSignature_ProbePanicDegrades(t *testing.T) {
	src := newFakeSource()
	src.audio = func() (string, error) { panic("AudioContext blocked") }

	var sig string
	assert.NotPanics(t, func() { sig = Signature(src) })

	sentinel := newFakeSource()
	sentinel.audio = value("audio-error")
	assert.Equal(t, Signature(sentinel), sig)
}

func TestStorageUnavailable(t *testing.T) {
	src := newFakeSource()
	assert.Empty(t, StorageUnavailable(src))

	src.capabilities = map[string]bool{"localStorage": true, "indexedDB": true}
	assert.Empty(t, StorageUnavailable(src))

	src.capabilities = map[string]bool{"localStorage": false, "indexedDB": false, "cookies": true}
	assert.Equal(t, []string{"indexedDB", "localStorage"}, StorageUnavailable(src))
}

func TestDescribe_IncludesSentinels(t *testing.T) {
	src := newFakeSource()
	src.webgl = failing(ErrUnsupported)
	assert.Contains(t, Describe(src), "webgl=no-webgl")
}
