package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"ndexplorer/internal"
	"ndexplorer/internal/explorer"
	"ndexplorer/internal/providers"
)

// Run starts the dispatcher and the full-screen program and blocks until the
// user quits or ctx is cancelled.
func Run(ctx context.Context, v *internal.Viewer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var program *tea.Program
	renderer := explorer.RendererFunc(func(s explorer.Snapshot) {
		if program != nil {
			program.Send(snapshotMsg(s))
		}
	})

	clock := explorer.NewRealClock()
	dispatcher := v.NewDispatcher(renderer, clock)
	scroll := explorer.NewScrollTrigger(v.Conf.Viewer.ScrollThrottle, clock, func(vp explorer.Viewport) {
		dispatcher.Post(explorer.ScrollNearBottom{Viewport: vp})
	})
	defer scroll.Stop()

	program = tea.NewProgram(NewModel(dispatcher, scroll), tea.WithAltScreen(), tea.WithContext(ctx))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		dispatcher.Run(ctx)
	}()

	_, err := program.Run()
	cancel()
	wg.Wait()

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		v.Logger.Errorf(providers.TypeApp, "Viewer stopped: %v", err)
		return err
	}
	v.Logger.Infof(providers.TypeApp, "Viewer closed")
	return nil
}
