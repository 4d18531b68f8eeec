package models

import (
	"errors"
	"fmt"
)

const (
	ErrConfigMissing = "error.configMissing"
	ErrAPIError      = "error.apiError"
	ErrInvalidParam  = "error.invalidParam"
	ErrInvalidDate   = "error.invalidDate"
	ErrUnknown       = "error.unknown"
)

type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindConfig
	KindUpstream
	KindValidation
)

// AppError carries a message key understood by the rendering layer and an
// optional detail (offending field name, upstream status and body).
type AppError struct {
	Code   string
	Detail string
	Status int
	cause  error
}

func (e *AppError) Error() string {
	if e.Detail == "" {
		return e.Code
	}
	return fmt.Sprintf("%s (%s)", e.Code, e.Detail)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func (e *AppError) Kind() ErrorKind {
	switch e.Code {
	case ErrConfigMissing:
		return KindConfig
	case ErrAPIError:
		return KindUpstream
	case ErrInvalidParam, ErrInvalidDate:
		return KindValidation
	default:
		return KindUnknown
	}
}

func ConfigError() *AppError {
	return &AppError{Code: ErrConfigMissing}
}

func UpstreamError(status int, body string) *AppError {
	return &AppError{Code: ErrAPIError, Status: status, Detail: fmt.Sprintf("%d: %s", status, body)}
}

func ValidationError(field string) *AppError {
	return &AppError{Code: ErrInvalidParam, Detail: field}
}

func InvalidDateError(field string) *AppError {
	return &AppError{Code: ErrInvalidDate, Detail: field}
}

func UnknownError(err error) *AppError {
	if err == nil {
		return &AppError{Code: ErrUnknown}
	}
	return &AppError{Code: ErrUnknown, Detail: err.Error(), cause: err}
}

// AsAppError normalizes any error into an AppError.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return UnknownError(err)
}

// ErrorResponse is the JSON envelope for failed proxy calls.
type ErrorResponse struct {
	Error    bool   `json:"error"`
	ErrorKey string `json:"errorKey"`
	Detail   string `json:"detail,omitempty"`
}

func NewErrorResponse(err *AppError) ErrorResponse {
	return ErrorResponse{Error: true, ErrorKey: err.Code, Detail: err.Detail}
}

func (r ErrorResponse) AppError() *AppError {
	code := r.ErrorKey
	if code == "" {
		code = ErrUnknown
	}
	return &AppError{Code: code, Detail: r.Detail}
}

var messages = map[string]string{
	ErrConfigMissing: "Missing config: NEXTDNS_API_KEY or NEXTDNS_PROFILE_ID not set in .env",
	ErrAPIError:      "NextDNS API error",
	ErrUnknown:       "Unknown error",
	ErrInvalidDate:   "Invalid date",
	ErrInvalidParam:  "Invalid parameter",
}

// Message renders an error the way the notification area shows it.
func Message(err error) string {
	appErr := AsAppError(err)
	if appErr == nil {
		return ""
	}
	msg, ok := messages[appErr.Code]
	if !ok {
		msg = messages[ErrUnknown]
	}
	if appErr.Detail != "" {
		return fmt.Sprintf("%s (%s)", msg, appErr.Detail)
	}
	return msg
}
