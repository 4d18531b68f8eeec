package internal

import (
	"time"

	"ndexplorer/internal/apiclient"
	"ndexplorer/internal/explorer"
	"ndexplorer/internal/nextdns"
	"ndexplorer/internal/providers"
	"ndexplorer/internal/services"
	"ndexplorer/internal/structures"
)

// Viewer bundles what the interactive and headless front-ends need.
type Viewer struct {
	Conf   *structures.Config
	Logger providers.Logger
	Source explorer.LogSource
}

func NewViewer(conf *structures.Config, logger providers.Logger, source explorer.LogSource) *Viewer {
	return &Viewer{Conf: conf, Logger: logger, Source: source}
}

// NewLogSource talks to NextDNS in-process with --direct and to the proxy
// otherwise.
func NewLogSource(conf *structures.Config, flags *structures.CliFlags, logger providers.Logger, metrics providers.MetricsProviderInterface) explorer.LogSource {
	if flags.Direct {
		logger.Infof(providers.TypeApp, "Using NextDNS API directly")
		return services.NewLogService(nextdns.NewClient(conf, logger, metrics), logger)
	}
	url := conf.Viewer.APIURL
	if flags.APIURL != "" {
		url = flags.APIURL
	}
	logger.Infof(providers.TypeApp, "Using proxy at %s", url)
	return apiclient.NewClient(url, conf.NextDNS.Timeout*2, logger)
}

func (v *Viewer) NewDispatcher(renderer explorer.Renderer, clock explorer.Clock) *explorer.Dispatcher {
	return explorer.NewDispatcher(v.Source, explorer.DispatcherOptions{
		Clock:           clock,
		Logger:          v.Logger,
		Renderer:        renderer,
		ScrollThreshold: v.Conf.Viewer.ScrollThreshold,
		Location:        time.Local,
	})
}
