package models

import (
	"strings"
	"time"
)

type Status string

const (
	StatusAny     Status = ""
	StatusDefault Status = "default"
	StatusBlocked Status = "blocked"
	StatusAllowed Status = "allowed"
	StatusError   Status = "error"
)

var validStatuses = map[Status]struct{}{
	StatusDefault: {},
	StatusBlocked: {},
	StatusAllowed: {},
	StatusError:   {},
}

// ParseStatus accepts an empty string as "any status".
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(raw))
	if s == StatusAny {
		return StatusAny, nil
	}
	if _, ok := validStatuses[s]; !ok {
		return StatusAny, ValidationError("status")
	}
	return s, nil
}

func (s Status) Valid() bool {
	_, ok := validStatuses[s]
	return ok
}

type Reason struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type LogDevice struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Model string `json:"model,omitempty"`
}

// LogRecord is a single DNS query as returned by the logs endpoint.
type LogRecord struct {
	Timestamp time.Time  `json:"timestamp"`
	Domain    string     `json:"domain"`
	Root      string     `json:"root,omitempty"`
	Tracker   string     `json:"tracker,omitempty"`
	Encrypted bool       `json:"encrypted,omitempty"`
	Protocol  string     `json:"protocol,omitempty"`
	ClientIP  string     `json:"clientIp,omitempty"`
	Client    string     `json:"client,omitempty"`
	Device    *LogDevice `json:"device,omitempty"`
	Status    Status     `json:"status"`
	Reasons   []Reason   `json:"reasons,omitempty"`
}

func (r *LogRecord) HasTracker() bool {
	return r.Tracker != ""
}

// DeviceLabel prefers the device name, then its model.
func (r *LogRecord) DeviceLabel() string {
	if r.Device == nil {
		return ""
	}
	if r.Device.Name != "" {
		return r.Device.Name
	}
	return r.Device.Model
}
