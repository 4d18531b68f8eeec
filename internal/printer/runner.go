package printer

import (
	"context"
	"time"

	"ndexplorer/internal/explorer"
	"ndexplorer/internal/models"
	"ndexplorer/internal/providers"
)

// Options are the headless equivalents of the viewer controls.
type Options struct {
	Preset  models.Preset
	Form    explorer.FormValues
	Filters models.LocalFilterState
	// Pages caps how many pages one search loads; zero loads until the cursor
	// is exhausted.
	Pages int
	// Refresh is an auto-refresh interval in seconds; zero prints once.
	Refresh int
}

// Runner performs searches without a viewport: pages are pulled eagerly and
// printed as they are committed.
type Runner struct {
	fetcher explorer.Fetcher
	printer PrinterInterface
	clock   explorer.Clock
	logger  providers.Logger
	loc     *time.Location
}

func NewRunner(fetcher explorer.Fetcher, printer PrinterInterface, clock explorer.Clock, logger providers.Logger, loc *time.Location) *Runner {
	if clock == nil {
		clock = explorer.NewRealClock()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Runner{fetcher: fetcher, printer: printer, clock: clock, logger: logger, loc: loc}
}

// Run prints one search, then keeps re-running the 1h preset every Refresh
// seconds until ctx is cancelled.
func (r *Runner) Run(ctx context.Context, opts Options) error {
	if opts.Preset == models.PresetNone && opts.Form.From == "" && opts.Form.To == "" {
		opts.Preset = models.Preset1h
	}
	if opts.Refresh > 0 {
		if !explorer.ValidInterval(opts.Refresh) {
			return explorer.ErrInvalidInterval
		}
		if opts.Preset != models.Preset1h || opts.Form.Status != "" || opts.Form.DeviceID != "" {
			return explorer.ErrNotEligible
		}
	}

	if err := r.search(ctx, opts); err != nil {
		return err
	}
	if opts.Refresh == 0 {
		return nil
	}

	var sched explorer.Scheduler
	token, err := sched.Start(opts.Refresh)
	if err != nil {
		return err
	}
	ticker := r.clock.NewTicker(time.Second)
	defer ticker.Stop()
	r.logger.Infof(providers.TypeExplorer, "Auto-refresh every %s", explorer.IntervalLabel(opts.Refresh))

	for {
		select {
		case <-ctx.Done():
			sched.Stop()
			return nil
		case now := <-ticker.C():
			if sched.Tick(token) != explorer.TickFired {
				continue
			}
			if err := r.printer.Separator(now); err != nil {
				return err
			}
			// Failures while refreshing are reported and the countdown goes on.
			if err := r.search(ctx, opts); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				r.logger.Warnf(providers.TypeExplorer, "Refresh failed: %s", models.Message(err))
			}
		}
	}
}

func (r *Runner) search(ctx context.Context, opts Options) error {
	form := opts.Form
	if opts.Preset != models.PresetNone {
		form = explorer.ApplyPreset(form, opts.Preset, r.clock.Now(), r.loc)
	}
	q, err := explorer.BuildQuery(form, opts.Preset, r.loc)
	if err != nil {
		return err
	}

	var acc explorer.Accumulator
	req := acc.Reset(q)
	for loaded := 1; ; loaded++ {
		page, err := r.fetcher.Fetch(ctx, req.Query, req.Cursor)
		if err != nil {
			acc.Fail(req.Token)
			return err
		}
		acc.Commit(req.Token, page)

		if err := r.printer.Records(explorer.ApplyFilters(page.Records, opts.Filters).Visible); err != nil {
			return err
		}
		if opts.Pages > 0 && loaded >= opts.Pages {
			break
		}
		next, ok := acc.BeginAppend()
		if !ok {
			break
		}
		req = next
	}

	r.logger.Debugf(providers.TypeExplorer, "Search loaded %d record(s), exhausted=%t", acc.Session.TotalSeen, acc.Session.Exhausted)
	return r.printer.Summary(explorer.ApplyFilters(acc.Session.Records, opts.Filters), acc.Session.Exhausted)
}
