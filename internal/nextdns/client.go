// Package nextdns is a read-only client for the NextDNS API. Only GET requests
// are ever issued.
package nextdns

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"
	"ndexplorer/internal/models"
	"ndexplorer/internal/providers"
	"ndexplorer/internal/structures"
)

const maxErrorBodySize = 64 << 10

type LogsParams struct {
	From   string
	To     string
	Status string
	Device string
	Cursor string
}

type ClientInterface interface {
	Devices(ctx context.Context) (*models.DevicesResponse, error)
	Logs(ctx context.Context, params LogsParams) (*models.LogsResponse, error)
}

type Client struct {
	baseURL   string
	apiKey    string
	profileID string
	limit     int
	http      *http.Client
	limiter   *rate.Limiter
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
}

func NewClient(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) ClientInterface {
	limit := rate.Inf
	if conf.NextDNS.RateLimit > 0 {
		limit = rate.Limit(conf.NextDNS.RateLimit)
	}
	timeout := conf.NextDNS.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL:   strings.TrimRight(conf.NextDNS.BaseURL, "/"),
		apiKey:    conf.NextDNS.APIKey,
		profileID: conf.NextDNS.ProfileID,
		limit:     providers.ClampLogsLimit(conf.NextDNS.LogsLimit),
		http:      &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(limit, 1),
		logger:    logger,
		metrics:   metrics,
	}
}

func (c *Client) configured() error {
	if c.apiKey == "" || c.profileID == "" {
		return models.ConfigError()
	}
	return nil
}

func (c *Client) Devices(ctx context.Context) (*models.DevicesResponse, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/profiles/%s/analytics/devices", c.baseURL, url.PathEscape(c.profileID))
	var resp models.DevicesResponse
	if err := c.get(ctx, "devices", u, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Logs(ctx context.Context, params LogsParams) (*models.LogsResponse, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("raw", "1")
	q.Set("sort", "desc")
	q.Set("limit", strconv.Itoa(c.limit))
	setIfNotEmpty(q, "from", params.From)
	setIfNotEmpty(q, "to", params.To)
	setIfNotEmpty(q, "status", params.Status)
	setIfNotEmpty(q, "device", params.Device)
	setIfNotEmpty(q, "cursor", params.Cursor)

	u := fmt.Sprintf("%s/profiles/%s/logs?%s", c.baseURL, url.PathEscape(c.profileID), q.Encode())
	var resp models.LogsResponse
	if err := c.get(ctx, "logs", u, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, endpoint, u string, out any) (err error) {
	start := time.Now()
	defer func() {
		code := "ok"
		if err != nil {
			code = models.AsAppError(err).Code
		}
		c.metrics.ObserveUpstreamCall(endpoint, code, time.Since(start))
	}()

	if err = c.limiter.Wait(ctx); err != nil {
		return models.UnknownError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return models.UnknownError(err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	c.logger.Debugf(providers.TypeUpstream, "GET %s", redact(u))
	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Errorf(providers.TypeUpstream, "GET %s failed: %s", endpoint, err)
		return models.UnknownError(err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBodySize))
		c.logger.Warnf(providers.TypeUpstream, "GET %s returned %d", endpoint, res.StatusCode)
		return models.UpstreamError(res.StatusCode, string(body))
	}

	if err = json.NewDecoder(res.Body).Decode(out); err != nil {
		return models.UnknownError(fmt.Errorf("decode %s response: %w", endpoint, err))
	}
	return nil
}

func setIfNotEmpty(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

// redact drops the query string so cursors do not end up in log files.
func redact(u string) string {
	if i := strings.IndexByte(u, '?'); i >= 0 {
		return u[:i]
	}
	return u
}
