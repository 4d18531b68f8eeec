package nextdns

import (
	"net/url"
	"time"

	"github.com/gookit/validate"
	"ndexplorer/internal/models"
)

// dateLayouts are tried in order when checking from/to values.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

type statusRule struct {
	Status string `validate:"in:default,blocked,allowed,error"`
}

func ParamsFromQuery(q url.Values) LogsParams {
	return LogsParams{
		From:   q.Get("from"),
		To:     q.Get("to"),
		Status: q.Get("status"),
		Device: q.Get("device"),
		Cursor: q.Get("cursor"),
	}
}

func (p LogsParams) Values() url.Values {
	q := url.Values{}
	setIfNotEmpty(q, "from", p.From)
	setIfNotEmpty(q, "to", p.To)
	setIfNotEmpty(q, "status", p.Status)
	setIfNotEmpty(q, "device", p.Device)
	setIfNotEmpty(q, "cursor", p.Cursor)
	return q
}

// Validate checks status, then from, then to, and reports the first offending
// field as error.invalidParam. It never touches the network.
func (p LogsParams) Validate() error {
	v := validate.Struct(&statusRule{Status: p.Status})
	if !v.Validate() {
		return models.ValidationError("status")
	}
	if p.From != "" && !IsDate(p.From) {
		return models.ValidationError("from")
	}
	if p.To != "" && !IsDate(p.To) {
		return models.ValidationError("to")
	}
	return nil
}

func IsDate(raw string) bool {
	_, ok := ParseDate(raw)
	return ok
}

func ParseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
