package models

import (
	"errors"
	"reviewguard/internal/fingerprint"
	"strconv"
)

// DeviceEnvironment is the browser/environment tuple reported by the client.
// ProbeErrors carries failures of the canvas, webgl and audio probes keyed by
// probe name; the value "unsupported" marks a missing API.
type DeviceEnvironment struct {
	UserAgent           string            `json:"userAgent"`
	Language            string            `json:"language"`
	ScreenWidth         int               `json:"screenWidth"`
	ScreenHeight        int               `json:"screenHeight"`
	ColorDepth          int               `json:"colorDepth"`
	TimezoneOffset      int               `json:"timezoneOffset"`
	Platform            string            `json:"platform"`
	HardwareConcurrency int               `json:"hardwareConcurrency"`
	DeviceMemory        float64           `json:"deviceMemory"`
	Canvas              string            `json:"canvas"`
	WebGLRenderer       string            `json:"webglRenderer"`
	Audio               string            `json:"audio"`
	ProbeErrors         map[string]string `json:"probeErrors,omitempty"`
	Capabilities        map[string]bool   `json:"capabilities,omitempty"`
}

const unsupportedProbe = "unsupported"

func (e *DeviceEnvironment) Basics() []string {
	return []string{
		e.UserAgent,
		e.Language,
		strconv.Itoa(e.ScreenWidth) + "x" + strconv.Itoa(e.ScreenHeight),
		strconv.Itoa(e.ColorDepth),
		strconv.Itoa(e.TimezoneOffset),
		e.Platform,
		strconv.Itoa(e.HardwareConcurrency),
		strconv.FormatFloat(e.DeviceMemory, 'f', -1, 64),
	}
}

func (e *DeviceEnvironment) probe(name, value string) (string, error) {
	if msg, ok := e.ProbeErrors[name]; ok {
		if msg == unsupportedProbe {
			return "", fingerprint.ErrUnsupported
		}
		return "", errors.New(msg)
	}
	if value == "" {
		return "", fingerprint.ErrUnsupported
	}
	return value, nil
}

func (e *DeviceEnvironment) CanvasProbe() (string, error) {
	return e.probe("canvas", e.Canvas)
}

func (e *DeviceEnvironment) WebGLProbe() (string, error) {
	return e.probe("webgl", e.WebGLRenderer)
}

func (e *DeviceEnvironment) AudioProbe() (string, error) {
	return e.probe("audio", e.Audio)
}

func (e *DeviceEnvironment) CapabilityProbes() map[string]bool {
	return e.Capabilities
}
