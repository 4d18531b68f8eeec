package explorer

import (
	"strings"
	"time"

	"ndexplorer/internal/models"
)

// Placeholder is shown for missing values.
const Placeholder = "—"

const timestampLayout = "02.01.2006 15:04:05"

var protocolLabels = map[string]string{
	"DNS-over-HTTPS": "DoH",
	"DNS-over-TLS":   "DoT",
	"DNS-over-QUIC":  "DoQ",
	"UDP":            "UDP",
	"TCP":            "TCP",
}

// Snapshot is the committed view handed to renderers.
type Snapshot struct {
	State          State        `json:"state"`
	Result         FilterResult `json:"result"`
	Counter        string       `json:"counter"`
	Loading        bool         `json:"loading"`
	ScrollLoading  bool         `json:"scrollLoading"`
	Empty          bool         `json:"empty"`
	EndReached     bool         `json:"endReached"`
	RefreshEnabled bool         `json:"refreshEnabled"`
}

func NewSnapshot(s State) Snapshot {
	res := s.View()
	return Snapshot{
		State:          s,
		Result:         res,
		Counter:        res.CounterLabel(),
		Loading:        s.Loading(),
		ScrollLoading:  s.ScrollLoading(),
		Empty:          s.Accumulator.Empty(),
		EndReached:     s.Accumulator.EndReached(),
		RefreshEnabled: s.RefreshEnabled(),
	}
}

// Renderer turns a snapshot into whatever the front-end draws.
type Renderer interface {
	Render(s Snapshot)
}

type RendererFunc func(Snapshot)

func (f RendererFunc) Render(s Snapshot) {
	f(s)
}

// Row is a record prepared for display.
type Row struct {
	Time     string
	Domain   string
	Root     string
	Tracker  string
	Protocol string
	Status   models.Status
	Device   string
}

func NewRow(r models.LogRecord, loc *time.Location) Row {
	return Row{
		Time:     FormatTimestamp(r.Timestamp, loc),
		Domain:   orPlaceholder(r.Domain),
		Root:     orPlaceholder(r.Root),
		Tracker:  orPlaceholder(r.Tracker),
		Protocol: ShortenProtocol(r.Protocol),
		Status:   r.Status,
		Device:   orPlaceholder(r.DeviceLabel()),
	}
}

func ShortenProtocol(protocol string) string {
	if label, ok := protocolLabels[protocol]; ok {
		return label
	}
	return Placeholder
}

func FormatTimestamp(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return Placeholder
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(timestampLayout)
}

// SplitDomain separates the subdomain prefix from the root so renderers can
// emphasise the root part. The root is matched at its last occurrence.
func SplitDomain(domain, root string) (prefix, rootPart string) {
	if domain == "" || root == "" {
		return domain, ""
	}
	idx := strings.LastIndex(domain, root)
	if idx < 0 {
		return domain, ""
	}
	return domain[:idx], root
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
