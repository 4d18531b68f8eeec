package explorer

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"
	"ndexplorer/internal/models"
	"ndexplorer/internal/providers"
)

const (
	eventBuffer  = 64
	tickInterval = time.Second
)

type DispatcherOptions struct {
	Clock           Clock
	Logger          providers.Logger
	Renderer        Renderer
	ScrollThreshold int
	Location        *time.Location
}

// Dispatcher is the event loop around Transition. A single goroutine owns the
// state; fetches and timer ticks run elsewhere and come back as events.
type Dispatcher struct {
	source   LogSource
	fetcher  Fetcher
	clock    Clock
	logger   providers.Logger
	renderer Renderer

	events  chan Event
	done    chan struct{}
	running atomic.Bool

	state State

	snapMu sync.RWMutex
	snap   Snapshot

	ticker     Ticker
	tickerStop chan struct{}

	workers sync.WaitGroup
}

func NewDispatcher(source LogSource, opts DispatcherOptions) *Dispatcher {
	if opts.Clock == nil {
		opts.Clock = NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = providers.NopLogger{}
	}
	if opts.Renderer == nil {
		opts.Renderer = RendererFunc(func(Snapshot) {})
	}

	state := NewState(opts.ScrollThreshold, opts.Location)
	return &Dispatcher{
		source:   source,
		fetcher:  NewPageFetcher(source, opts.Logger),
		clock:    opts.Clock,
		logger:   opts.Logger,
		renderer: opts.Renderer,
		events:   make(chan Event, eventBuffer),
		done:     make(chan struct{}),
		state:    state,
		snap:     NewSnapshot(state),
	}
}

// Run processes events until ctx is cancelled. The refresh ticker is stopped
// before Run returns.
func (d *Dispatcher) Run(ctx context.Context) {
	if !d.running.CompareAndSwap(false, true) {
		return
	}
	defer func() {
		d.stopTicker()
		close(d.done)
		d.workers.Wait()
	}()

	d.logger.Infof(providers.TypeExplorer, "Dispatcher started")
	for {
		select {
		case <-ctx.Done():
			d.apply(ctx, Teardown{})
			d.logger.Infof(providers.TypeExplorer, "Dispatcher stopped")
			return
		case ev := <-d.events:
			d.apply(ctx, ev)
		}
	}
}

// Post queues an event. It returns false once the loop has stopped.
func (d *Dispatcher) Post(ev Event) bool {
	select {
	case <-d.done:
		return false
	default:
	}
	select {
	case d.events <- ev:
		return true
	case <-d.done:
		return false
	}
}

func (d *Dispatcher) Snapshot() Snapshot {
	d.snapMu.RLock()
	defer d.snapMu.RUnlock()
	return d.snap
}

func (d *Dispatcher) Now() time.Time {
	return d.clock.Now()
}

func (d *Dispatcher) apply(ctx context.Context, ev Event) {
	next, cmds := Transition(d.state, ev)
	if dropped := next.Accumulator.Dropped - d.state.Accumulator.Dropped; dropped > 0 {
		d.logger.Debugf(providers.TypeExplorer, "Dropped %d stale response(s)", dropped)
	}
	d.state = next

	snap := NewSnapshot(next)
	d.snapMu.Lock()
	d.snap = snap
	d.snapMu.Unlock()
	d.renderer.Render(snap)

	for _, cmd := range cmds {
		d.execute(ctx, cmd)
	}
}

func (d *Dispatcher) execute(ctx context.Context, cmd Command) {
	switch c := cmd.(type) {
	case LoadDevices:
		d.spawn(func() {
			devices, err := d.source.Devices(ctx)
			if err != nil {
				err = models.AsAppError(err)
			}
			d.Post(DevicesLoaded{Devices: devices, Err: err, Now: d.clock.Now()})
		})

	case StartFetch:
		req := c.Request
		d.logger.Debugf(providers.TypeExplorer, "Fetch %s token=%d cursor=%t", req.Mode, req.Token, req.Cursor != "")
		d.spawn(func() {
			page, err := d.fetcher.Fetch(ctx, req.Query, req.Cursor)
			d.Post(FetchCompleted{Token: req.Token, Mode: req.Mode, Page: page, Err: err})
		})

	case StartTicker:
		d.startTicker(c.Token)

	case StopTicker:
		d.stopTicker()
	}
}

func (d *Dispatcher) spawn(fn func()) {
	d.workers.Add(1)
	go func() {
		defer d.workers.Done()
		fn()
	}()
}

func (d *Dispatcher) startTicker(token uint64) {
	d.stopTicker()

	ticker := d.clock.NewTicker(tickInterval)
	stop := make(chan struct{})
	d.ticker = ticker
	d.tickerStop = stop

	d.spawn(func() {
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C():
				d.Post(RefreshTicked{Token: token, Now: now})
			}
		}
	})
	d.logger.Infof(providers.TypeExplorer, "Auto-refresh started, token=%d", token)
}

func (d *Dispatcher) stopTicker() {
	if d.ticker == nil {
		return
	}
	d.ticker.Stop()
	close(d.tickerStop)
	d.ticker = nil
	d.tickerStop = nil
	d.logger.Infof(providers.TypeExplorer, "Auto-refresh stopped")
}
