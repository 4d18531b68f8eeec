package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"ndexplorer/internal/models"
	"ndexplorer/internal/nextdns"
	"ndexplorer/internal/testutil"
)

func TestLogService_Devices(t *testing.T) {
	client := &testutil.MockClient{DevicesResp: &models.DevicesResponse{Data: testutil.Devices()}}
	svc := NewLogService(client, &testutil.MockLogger{})

	devices, err := svc.Devices(context.Background())
	require.NoError(t, err)
	assert.Len(t, devices, 3)
}

func TestLogService_DevicesNilDataIsEmpty(t *testing.T) {
	svc := NewLogService(&testutil.MockClient{}, &testutil.MockLogger{})

	devices, err := svc.Devices(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, devices)
	assert.Empty(t, devices)
}

func TestLogService_DevicesErrorIsLogged(t *testing.T) {
	logger := &testutil.MockLogger{}
	client := &testutil.MockClient{DevicesErr: models.ConfigError()}
	svc := NewLogService(client, logger)

	_, err := svc.Devices(context.Background())
	assert.Equal(t, models.ErrConfigMissing, models.AsAppError(err).Code)
	assert.Equal(t, 1, logger.Count("error"))
}

func TestLogService_LogsNormalizesPage(t *testing.T) {
	cursor := "c1"
	client := &testutil.MockClient{LogsResp: &models.LogsResponse{
		Data: testutil.TrackerSample(),
		Meta: &models.LogsMeta{Pagination: &models.Pagination{Cursor: &cursor}},
	}}
	svc := NewLogService(client, &testutil.MockLogger{})

	params := nextdns.LogsParams{Status: "blocked", Cursor: "c0"}
	page, err := svc.Logs(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, page.Records, 5)
	assert.Equal(t, models.Cursor("c1"), page.NextCursor)
	require.Len(t, client.LogsCalls, 1)
	assert.Equal(t, params, client.LogsCalls[0])
}

func TestLogService_LogsRejectsInvalidParamsLocally(t *testing.T) {
	client := &testutil.MockClient{}
	svc := NewLogService(client, &testutil.MockLogger{})

	_, err := svc.Logs(context.Background(), nextdns.LogsParams{From: "not-a-date"})
	appErr := models.AsAppError(err)
	assert.Equal(t, models.ErrInvalidParam, appErr.Code)
	assert.Equal(t, "from", appErr.Detail)
	assert.Empty(t, client.LogsCalls)
}

func TestLogService_LogsUpstreamError(t *testing.T) {
	logger := &testutil.MockLogger{}
	client := &testutil.MockClient{LogsErr: models.UpstreamError(500, "boom")}
	svc := NewLogService(client, logger)

	_, err := svc.Logs(context.Background(), nextdns.LogsParams{})
	assert.Equal(t, models.ErrAPIError, models.AsAppError(err).Code)
	assert.Equal(t, 1, logger.Count("error"))
}
