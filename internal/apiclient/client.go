// Package apiclient consumes the read-only proxy served by `ndexplorer serve`.
package apiclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"ndexplorer/internal/models"
	"ndexplorer/internal/nextdns"
	"ndexplorer/internal/providers"
)

const maxBodySize = 32 << 20

type Client struct {
	baseURL string
	http    *http.Client
	logger  providers.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger providers.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *Client) Devices(ctx context.Context) ([]models.Device, error) {
	var resp models.DevicesResponse
	if err := c.get(ctx, "/api/devices", &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return []models.Device{}, nil
	}
	return resp.Data, nil
}

// Logs validates params locally first so malformed filters never reach the
// network.
func (c *Client) Logs(ctx context.Context, params nextdns.LogsParams) (models.Page, error) {
	if err := params.Validate(); err != nil {
		return models.Page{}, err
	}

	path := "/api/logs"
	if q := params.Values().Encode(); q != "" {
		path += "?" + q
	}

	var resp models.LogsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return models.Page{}, err
	}
	return resp.ToPage(), nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return models.UnknownError(err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Errorf(providers.TypeUpstream, "GET %s failed: %s", path, err)
		return models.UnknownError(err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return models.UnknownError(err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var envelope models.ErrorResponse
		if jErr := json.Unmarshal(body, &envelope); jErr == nil && (envelope.Error || envelope.ErrorKey != "") {
			return envelope.AppError()
		}
		return models.UpstreamError(res.StatusCode, string(body))
	}

	if err = json.Unmarshal(body, out); err != nil {
		return models.UnknownError(fmt.Errorf("decode %s: %w", path, err))
	}
	return nil
}
