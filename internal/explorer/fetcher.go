package explorer

import (
	"context"

	"ndexplorer/internal/models"
	"ndexplorer/internal/nextdns"
	"ndexplorer/internal/providers"
)

// LogSource is anything that can answer the two read-only calls: the proxy
// client or the in-process NextDNS service.
type LogSource interface {
	Devices(ctx context.Context) ([]models.Device, error)
	Logs(ctx context.Context, params nextdns.LogsParams) (models.Page, error)
}

// Fetcher performs exactly one paginated request. An empty cursor asks for
// the first page. Failures are returned as *models.AppError and never retried.
type Fetcher interface {
	Fetch(ctx context.Context, q models.Query, cursor models.Cursor) (models.Page, error)
}

type PageFetcher struct {
	source LogSource
	logger providers.Logger
}

func NewPageFetcher(source LogSource, logger providers.Logger) *PageFetcher {
	return &PageFetcher{source: source, logger: logger}
}

func (f *PageFetcher) Fetch(ctx context.Context, q models.Query, cursor models.Cursor) (models.Page, error) {
	params := Params(q, cursor)
	if err := params.Validate(); err != nil {
		return models.Page{}, err
	}

	page, err := f.source.Logs(ctx, params)
	if err != nil {
		appErr := models.AsAppError(err)
		f.logger.Warnf(providers.TypeExplorer, "Page fetch failed: %s", appErr)
		return models.Page{}, appErr
	}
	if page.Records == nil {
		page.Records = []models.LogRecord{}
	}
	return page, nil
}
