package explorer

import (
	"errors"
	"fmt"

	"ndexplorer/internal/models"
)

// RefreshIntervals are the only countdowns offered, in seconds.
var RefreshIntervals = []int{30, 60, 300}

var (
	ErrInvalidInterval = errors.New("unsupported refresh interval")
	ErrNotEligible     = errors.New("auto-refresh requires the 1h preset without status or device filters")
)

func ValidInterval(seconds int) bool {
	for _, v := range RefreshIntervals {
		if v == seconds {
			return true
		}
	}
	return false
}

type TickResult int

const (
	TickIgnored TickResult = iota
	TickCounted
	TickFired
)

// Scheduler is the auto-refresh countdown. Every Start mints a new token and
// the ticker feeding it carries that token, so a tick from a cancelled timer
// can never touch the countdown.
type Scheduler struct {
	State      models.AutoRefreshState `json:"state"`
	Generation uint64                  `json:"generation"`
}

func (s Scheduler) Running() bool {
	return s.State.Running()
}

func (s *Scheduler) Start(interval int) (uint64, error) {
	if !ValidInterval(interval) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidInterval, interval)
	}
	s.Stop()
	s.Generation++
	s.State = models.AutoRefreshState{
		Interval:  interval,
		Remaining: interval,
		Token:     s.Generation,
	}
	return s.Generation, nil
}

// Stop reports whether a countdown was running.
func (s *Scheduler) Stop() bool {
	was := s.Running()
	s.State = models.AutoRefreshState{}
	return was
}

// Toggle stops the countdown when the same interval is selected again and
// (re)starts it otherwise.
func (s *Scheduler) Toggle(interval int) (started bool, token uint64, err error) {
	if s.Running() && s.State.Interval == interval {
		s.Stop()
		return false, 0, nil
	}
	token, err = s.Start(interval)
	if err != nil {
		return false, 0, err
	}
	return true, token, nil
}

// Tick advances the countdown by one second. When it reaches zero the
// countdown is reset to the full interval and TickFired is returned.
func (s *Scheduler) Tick(token uint64) TickResult {
	if !s.Running() || token != s.State.Token {
		return TickIgnored
	}
	s.State.Remaining--
	if s.State.Remaining > 0 {
		return TickCounted
	}
	s.State.Remaining = s.State.Interval
	return TickFired
}

// FormatCountdown renders the remaining seconds the way the refresh buttons
// show them: "45s" under a minute, "m:ss" above.
func FormatCountdown(secs int) string {
	if secs >= 60 {
		return fmt.Sprintf("%d:%02d", secs/60, secs%60)
	}
	return fmt.Sprintf("%ds", secs)
}

// IntervalLabel is the idle label of a refresh button.
func IntervalLabel(secs int) string {
	switch secs {
	case 30:
		return "30s"
	case 60:
		return "1m"
	case 300:
		return "5m"
	default:
		return fmt.Sprintf("%ds", secs)
	}
}
