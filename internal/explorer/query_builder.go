package explorer

import (
	"strings"
	"time"

	"ndexplorer/internal/models"
	"ndexplorer/internal/nextdns"
)

// LocalLayout is how date bounds are shown and edited. Seconds are optional
// on input.
const LocalLayout = "2006-01-02T15:04:05"

var localInputLayouts = []string{
	LocalLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// FormValues are the raw server-side filter inputs as the user edits them.
type FormValues struct {
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	Status   string `json:"status,omitempty"`
	DeviceID string `json:"device,omitempty"`
}

// BuildQuery turns the form into a Query. Each bound is validated on its own
// and reported as error.invalidDate with the field name.
func BuildQuery(form FormValues, preset models.Preset, loc *time.Location) (models.Query, error) {
	from, err := parseBound(form.From, "from", loc)
	if err != nil {
		return models.Query{}, err
	}
	to, err := parseBound(form.To, "to", loc)
	if err != nil {
		return models.Query{}, err
	}
	status, err := models.ParseStatus(form.Status)
	if err != nil {
		return models.Query{}, err
	}

	return models.Query{
		From:     from,
		To:       to,
		Status:   status,
		DeviceID: strings.TrimSpace(form.DeviceID),
		Preset:   preset,
	}, nil
}

func parseBound(raw, field string, loc *time.Location) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range localInputLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return &t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	return nil, models.InvalidDateError(field)
}

// PresetWindow computes [now-d, now] for a preset.
func PresetWindow(p models.Preset, now time.Time) (time.Time, time.Time) {
	return now.Add(-p.Duration()), now
}

// ApplyPreset writes the preset window into the form bounds.
func ApplyPreset(form FormValues, p models.Preset, now time.Time, loc *time.Location) FormValues {
	if loc == nil {
		loc = time.Local
	}
	from, to := PresetWindow(p, now)
	form.From = from.In(loc).Format(LocalLayout)
	form.To = to.In(loc).Format(LocalLayout)
	return form
}

// Params serializes a query for the logs endpoint. Bounds go out as UTC
// RFC 3339.
func Params(q models.Query, cursor models.Cursor) nextdns.LogsParams {
	p := nextdns.LogsParams{
		Status: string(q.Status),
		Device: q.DeviceID,
		Cursor: string(cursor),
	}
	if q.From != nil {
		p.From = q.From.UTC().Format(time.RFC3339)
	}
	if q.To != nil {
		p.To = q.To.UTC().Format(time.RFC3339)
	}
	return p
}
