package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Kind(t *testing.T) {
	assert.Equal(t, KindConfig, ConfigError().Kind())
	assert.Equal(t, KindUpstream, UpstreamError(429, "slow down").Kind())
	assert.Equal(t, KindValidation, ValidationError("status").Kind())
	assert.Equal(t, KindValidation, InvalidDateError("from").Kind())
	assert.Equal(t, KindUnknown, UnknownError(errors.New("boom")).Kind())
}

func TestAppError_ErrorString(t *testing.T) {
	assert.Equal(t, "error.configMissing", ConfigError().Error())
	assert.Equal(t, "error.apiError (500: oops)", UpstreamError(500, "oops").Error())
	assert.Equal(t, "error.invalidParam (cursor)", ValidationError("cursor").Error())
}

func TestUnknownError_WrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := UnknownError(cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "connection refused", err.Detail)

	assert.Equal(t, ErrUnknown, UnknownError(nil).Code)
}

func TestAsAppError(t *testing.T) {
	assert.Nil(t, AsAppError(nil))

	wrapped := fmt.Errorf("fetch: %w", ValidationError("to"))
	appErr := AsAppError(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, ErrInvalidParam, appErr.Code)
	assert.Equal(t, "to", appErr.Detail)

	plain := AsAppError(errors.New("eof"))
	assert.Equal(t, ErrUnknown, plain.Code)
}

func TestErrorResponse_RoundTrip(t *testing.T) {
	resp := NewErrorResponse(UpstreamError(403, "forbidden"))
	assert.True(t, resp.Error)
	assert.Equal(t, ErrAPIError, resp.ErrorKey)

	back := resp.AppError()
	assert.Equal(t, ErrAPIError, back.Code)
	assert.Equal(t, "403: forbidden", back.Detail)

	assert.Equal(t, ErrUnknown, ErrorResponse{Error: true}.AppError().Code)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "Missing config: NEXTDNS_API_KEY or NEXTDNS_PROFILE_ID not set in .env", Message(ConfigError()))
	assert.Equal(t, "NextDNS API error (502: bad gateway)", Message(UpstreamError(502, "bad gateway")))
	assert.Equal(t, "Invalid date (from)", Message(InvalidDateError("from")))
	assert.Equal(t, "Unknown error", Message(&AppError{Code: "error.somethingNew"}))
}
