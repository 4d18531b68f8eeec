package services

import (
	"context"

	"ndexplorer/internal/models"
	"ndexplorer/internal/nextdns"
	"ndexplorer/internal/providers"
)

// LogServiceInterface is the read-only view of a NextDNS profile.
type LogServiceInterface interface {
	Devices(ctx context.Context) ([]models.Device, error)
	Logs(ctx context.Context, params nextdns.LogsParams) (models.Page, error)
}

type LogService struct {
	client nextdns.ClientInterface
	logger providers.Logger
}

func NewLogService(client nextdns.ClientInterface, logger providers.Logger) LogServiceInterface {
	return &LogService{
		client: client,
		logger: logger,
	}
}

func (ls *LogService) Devices(ctx context.Context) ([]models.Device, error) {
	resp, err := ls.client.Devices(ctx)
	if err != nil {
		ls.logger.Errorf(providers.TypeUpstream, "Devices fetch failed: %s", err)
		return nil, err
	}
	if resp.Data == nil {
		return []models.Device{}, nil
	}
	return resp.Data, nil
}

func (ls *LogService) Logs(ctx context.Context, params nextdns.LogsParams) (models.Page, error) {
	if err := params.Validate(); err != nil {
		return models.Page{}, err
	}

	resp, err := ls.client.Logs(ctx, params)
	if err != nil {
		ls.logger.Errorf(providers.TypeUpstream, "Logs fetch failed: %s", err)
		return models.Page{}, err
	}

	page := resp.ToPage()
	ls.logger.Debugf(providers.TypeUpstream, "Fetched %d records, more=%t", len(page.Records), !page.NextCursor.Exhausted())
	return page, nil
}
