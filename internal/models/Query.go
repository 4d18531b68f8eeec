package models

import "time"

type Preset string

const (
	PresetNone Preset = ""
	Preset1h   Preset = "1h"
	Preset24h  Preset = "24h"
	Preset3d   Preset = "3d"
)

// Presets lists the named ranges in display order.
var Presets = []Preset{Preset1h, Preset24h, Preset3d}

func (p Preset) Duration() time.Duration {
	switch p {
	case Preset24h:
		return 24 * time.Hour
	case Preset3d:
		return 3 * 24 * time.Hour
	default:
		return time.Hour
	}
}

func ParsePreset(raw string) (Preset, bool) {
	switch p := Preset(raw); p {
	case Preset1h, Preset24h, Preset3d:
		return p, true
	default:
		return PresetNone, false
	}
}

// Query is the subset of filters the logs API understands, plus the preset
// that produced the date range (if any).
type Query struct {
	From     *time.Time `json:"from,omitempty"`
	To       *time.Time `json:"to,omitempty"`
	Status   Status     `json:"status,omitempty"`
	DeviceID string     `json:"device,omitempty"`
	Preset   Preset     `json:"preset,omitempty"`
}

// IsAutoRefreshEligible reports whether the query has the only shape the
// auto-refresh loop may run under: the 1h preset with no status or device.
func (q Query) IsAutoRefreshEligible() bool {
	return q.Preset == Preset1h && q.Status == StatusAny && q.DeviceID == ""
}
