package explorer

import (
	"errors"
	"time"

	json "github.com/goccy/go-json"
	"ndexplorer/internal/models"
)

// State is everything the viewer knows. It is only ever replaced through
// Transition.
type State struct {
	Connecting      bool                    `json:"connecting"`
	Connected       bool                    `json:"connected"`
	Devices         []models.Device         `json:"devices,omitempty"`
	Form            FormValues              `json:"form"`
	Preset          models.Preset           `json:"preset,omitempty"`
	Accumulator     Accumulator             `json:"accumulator"`
	Filters         models.LocalFilterState `json:"filters"`
	Refresh         Scheduler               `json:"refresh"`
	ScrollThreshold int                     `json:"scrollThreshold"`
	Notice          string                  `json:"notice,omitempty"`
	NoticeSeq       int                     `json:"noticeSeq"`
	Failed          bool                    `json:"failed"`
	Location        *time.Location          `json:"-"`
}

func NewState(scrollThreshold int, loc *time.Location) State {
	if scrollThreshold <= 0 {
		scrollThreshold = DefaultScrollThreshold
	}
	if loc == nil {
		loc = time.Local
	}
	return State{ScrollThreshold: scrollThreshold, Location: loc}
}

func (s State) JSON() ([]byte, error) {
	return json.Marshal(s)
}

// RefreshEnabled is what greys out the refresh controls: only the 1h preset
// may auto-refresh.
func (s State) RefreshEnabled() bool {
	return s.Preset == models.Preset1h
}

// RefreshEligible is the full precondition for a running countdown.
func (s State) RefreshEligible() bool {
	q, err := BuildQuery(s.Form, s.Preset, s.Location)
	return err == nil && q.IsAutoRefreshEligible()
}

func (s State) Loading() bool {
	return s.Accumulator.Fetching(ModeReset)
}

func (s State) ScrollLoading() bool {
	return s.Accumulator.Fetching(ModeAppend)
}

func (s State) View() FilterResult {
	return ApplyFilters(s.Accumulator.Session.Records, s.Filters)
}

// Event is an input to the state machine.
type Event interface {
	eventName() string
}

type ConnectRequested struct{}

type DevicesLoaded struct {
	Devices []models.Device
	Err     error
	Now     time.Time
}

type PresetSelected struct {
	Preset models.Preset
	Now    time.Time
}

// BoundEdited is a manual edit of the from/to field.
type BoundEdited struct {
	Field string
	Value string
}

type StatusChanged struct {
	Status string
}

type DeviceChanged struct {
	DeviceID string
}

type SearchRequested struct{}

type ScrollNearBottom struct {
	Viewport Viewport
}

type RefreshToggled struct {
	Interval int
}

type RefreshTicked struct {
	Token uint64
	Now   time.Time
}

type FilterChanged struct {
	Filters models.LocalFilterState
}

type FetchCompleted struct {
	Token uint64
	Mode  FetchMode
	Page  models.Page
	Err   error
}

type Teardown struct{}

func (ConnectRequested) eventName() string { return "connectRequested" }
func (DevicesLoaded) eventName() string    { return "devicesLoaded" }
func (PresetSelected) eventName() string   { return "presetSelected" }
func (BoundEdited) eventName() string      { return "boundEdited" }
func (StatusChanged) eventName() string    { return "statusChanged" }
func (DeviceChanged) eventName() string    { return "deviceChanged" }
func (SearchRequested) eventName() string  { return "searchRequested" }
func (ScrollNearBottom) eventName() string { return "scrollNearBottom" }
func (RefreshToggled) eventName() string   { return "refreshToggled" }
func (RefreshTicked) eventName() string    { return "refreshTick" }
func (FilterChanged) eventName() string    { return "filterChanged" }
func (FetchCompleted) eventName() string   { return "fetchCompleted" }
func (Teardown) eventName() string         { return "teardown" }

// Command is a side effect requested by a transition.
type Command interface {
	commandName() string
}

type LoadDevices struct{}

type StartFetch struct {
	Request FetchRequest
}

type StartTicker struct {
	Token uint64
}

type StopTicker struct{}

func (LoadDevices) commandName() string { return "loadDevices" }
func (StartFetch) commandName() string  { return "startFetch" }
func (StartTicker) commandName() string { return "startTicker" }
func (StopTicker) commandName() string  { return "stopTicker" }

// Transition is the whole state machine: a pure function from the current
// state and one event to the next state and the side effects to perform.
func Transition(s State, ev Event) (State, []Command) {
	var cmds []Command

	switch e := ev.(type) {
	case ConnectRequested:
		if s.Connected || s.Connecting {
			return s, nil
		}
		s.Connecting = true
		cmds = append(cmds, LoadDevices{})

	case DevicesLoaded:
		s.Connecting = false
		if e.Err != nil {
			s.notify(e.Err)
			return s, nil
		}
		s.Devices = e.Devices
		s.Connected = true
		s.Form = ApplyPreset(s.Form, models.Preset1h, e.Now, s.Location)
		s.Preset = models.Preset1h
		cmds = s.search(cmds)

	case PresetSelected:
		s.Form = ApplyPreset(s.Form, e.Preset, e.Now, s.Location)
		s.Preset = e.Preset

	case BoundEdited:
		switch e.Field {
		case "from":
			s.Form.From = e.Value
		case "to":
			s.Form.To = e.Value
		default:
			return s, nil
		}
		// Even a manual window that still spans one hour is not the preset.
		s.Preset = models.PresetNone
		cmds = s.stopRefresh(cmds)

	case StatusChanged:
		s.Form.Status = e.Status
		cmds = s.stopRefresh(cmds)

	case DeviceChanged:
		s.Form.DeviceID = e.DeviceID
		cmds = s.stopRefresh(cmds)

	case SearchRequested:
		cmds = s.search(cmds)

	case ScrollNearBottom:
		guards := ScrollGuards{
			Connected: s.Connected && s.Accumulator.Started,
			Exhausted: s.Accumulator.Session.Exhausted,
			Fetching:  s.Accumulator.Pending != nil,
		}
		if !ShouldFetchMore(e.Viewport, guards, s.ScrollThreshold) {
			return s, nil
		}
		if req, ok := s.Accumulator.BeginAppend(); ok {
			cmds = append(cmds, StartFetch{Request: req})
		}

	case RefreshToggled:
		if !s.RefreshEligible() {
			s.notify(ErrNotEligible)
			return s, cmds
		}
		started, token, err := s.Refresh.Toggle(e.Interval)
		if err != nil {
			s.notify(err)
			return s, cmds
		}
		if started {
			cmds = append(cmds, StartTicker{Token: token})
		} else {
			cmds = append(cmds, StopTicker{})
		}

	case RefreshTicked:
		if s.Refresh.Tick(e.Token) != TickFired {
			return s, nil
		}
		// The countdown re-applies the preset itself, never the user's bounds.
		s.Form = ApplyPreset(s.Form, models.Preset1h, e.Now, s.Location)
		s.Preset = models.Preset1h
		if s.Loading() {
			return s, nil
		}
		cmds = s.search(cmds)

	case FilterChanged:
		s.Filters = e.Filters

	case FetchCompleted:
		if e.Err != nil {
			if s.Accumulator.Fail(e.Token) {
				s.Failed = e.Mode == ModeReset
				s.notify(e.Err)
			}
			return s, nil
		}
		if s.Accumulator.Commit(e.Token, e.Page) {
			s.Failed = false
		}

	case Teardown:
		cmds = s.stopRefresh(cmds)
	}

	cmds = s.enforceRefreshEligibility(cmds)
	return s, cmds
}

// search starts a reset-and-fetch from the current form. A search already in
// flight wins; invalid forms are reported without touching the session.
func (s *State) search(cmds []Command) []Command {
	if s.Loading() {
		return cmds
	}
	q, err := BuildQuery(s.Form, s.Preset, s.Location)
	if err != nil {
		s.notify(err)
		return cmds
	}
	s.Failed = false
	req := s.Accumulator.Reset(q)
	return append(cmds, StartFetch{Request: req})
}

func (s *State) stopRefresh(cmds []Command) []Command {
	if s.Refresh.Stop() {
		cmds = append(cmds, StopTicker{})
	}
	return cmds
}

func (s *State) enforceRefreshEligibility(cmds []Command) []Command {
	if s.Refresh.Running() && !s.RefreshEligible() {
		return s.stopRefresh(cmds)
	}
	return cmds
}

func (s *State) notify(err error) {
	if err == nil {
		return
	}
	s.NoticeSeq++
	if errors.Is(err, ErrNotEligible) || errors.Is(err, ErrInvalidInterval) {
		s.Notice = err.Error()
		return
	}
	s.Notice = models.Message(models.AsAppError(err))
}
