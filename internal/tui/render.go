package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"ndexplorer/internal/explorer"
	"ndexplorer/internal/models"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	activeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("63"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	rootStyle    = lipgloss.NewStyle().Bold(true)
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	headingStyle = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("245"))

	statusStyles = map[models.Status]lipgloss.Style{
		models.StatusBlocked: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		models.StatusAllowed: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		models.StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		models.StatusDefault: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	}
)

const (
	colTime     = 19
	colProtocol = 4
	colStatus   = 8
	colDevice   = 16
	colTracker  = 18
)

func renderHeader(s explorer.Snapshot, width int) string {
	st := s.State
	lines := make([]string, 0, headerLines)

	lines = append(lines, titleStyle.Render("NextDNS logs")+"  "+labelStyle.Render("Logs: ")+s.Counter)

	lines = append(lines, strings.Join([]string{
		presetButtons(st.Preset),
		field("from", st.Form.From),
		field("to", st.Form.To),
		field("status", orAny(st.Form.Status)),
		field("device", deviceName(st.Devices, st.Form.DeviceID)),
	}, "  "))

	hide := "off"
	if st.Filters.HideTrackers {
		hide = "on"
	}
	lines = append(lines, strings.Join([]string{
		field("hide trackers [h]", hide),
		field("domain [/]", st.Filters.DomainQuery),
		field("tracker [m]", st.Filters.TrackerQuery),
	}, "  "))

	lines = append(lines, refreshButtons(s))
	lines = append(lines, headingStyle.Render(truncate(columns("TIME", "DOMAIN", "TRACKER", "PROTO", "STATUS", "DEVICE", width), width)))
	return strings.Join(lines, "\n")
}

func presetButtons(active models.Preset) string {
	keys := map[models.Preset]string{models.Preset1h: "1", models.Preset24h: "2", models.Preset3d: "3"}
	parts := make([]string, 0, len(models.Presets))
	for _, p := range models.Presets {
		label := fmt.Sprintf("[%s] %s", keys[p], p)
		if p == active {
			parts = append(parts, activeStyle.Render(label))
		} else {
			parts = append(parts, labelStyle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func refreshButtons(s explorer.Snapshot) string {
	keys := map[int]string{30: "a", 60: "b", 300: "c"}
	refresh := s.State.Refresh.State
	parts := []string{labelStyle.Render("auto-refresh:")}
	for _, secs := range explorer.RefreshIntervals {
		label := explorer.IntervalLabel(secs)
		if refresh.Running() && refresh.Interval == secs {
			label = explorer.FormatCountdown(refresh.Remaining)
		}
		label = fmt.Sprintf("[%s] %s", keys[secs], label)
		switch {
		case !s.RefreshEnabled:
			parts = append(parts, dimStyle.Render(label))
		case refresh.Running() && refresh.Interval == secs:
			parts = append(parts, activeStyle.Render(label))
		default:
			parts = append(parts, label)
		}
	}
	if !s.RefreshEnabled {
		parts = append(parts, dimStyle.Render("(1h preset only)"))
	}
	return strings.Join(parts, " ")
}

func renderRows(s explorer.Snapshot, width int) []string {
	loc := s.State.Location
	lines := make([]string, 0, len(s.Result.Visible)+1)
	for _, rec := range s.Result.Visible {
		lines = append(lines, renderRow(explorer.NewRow(rec, loc), width))
	}
	if len(lines) == 0 && !s.Loading && s.Result.Total > 0 {
		lines = append(lines, dimStyle.Render("No logs match the local filters"))
	}
	return lines
}

func renderRow(row explorer.Row, width int) string {
	domainWidth := domainColumn(width)

	prefix, root := explorer.SplitDomain(row.Domain, row.Root)
	domain := pad(truncate(prefix+root, domainWidth), domainWidth)
	if root != "" && len(prefix)+len(root) <= domainWidth {
		domain = prefix + rootStyle.Render(root) + strings.Repeat(" ", domainWidth-len(prefix)-len(root))
	}

	status := pad(string(row.Status), colStatus)
	if style, ok := statusStyles[row.Status]; ok {
		status = style.Render(status)
	}

	return strings.Join([]string{
		pad(row.Time, colTime),
		domain,
		pad(truncate(row.Tracker, colTracker), colTracker),
		pad(row.Protocol, colProtocol),
		status,
		truncate(row.Device, colDevice),
	}, " ")
}

func renderFooter(s explorer.Snapshot) string {
	st := s.State
	var parts []string
	switch {
	case !st.Connected && st.Connecting:
		parts = append(parts, "Connecting...")
	case s.Loading:
		parts = append(parts, "Loading...")
	case s.ScrollLoading:
		parts = append(parts, "Loading more...")
	case s.Empty:
		parts = append(parts, "No logs found")
	case s.EndReached:
		parts = append(parts, dimStyle.Render("End of logs"))
	}
	if st.Notice != "" {
		parts = append(parts, noticeStyle.Render(st.Notice))
	}
	parts = append(parts, dimStyle.Render("enter search · f/t dates · s status · d device · q quit"))
	return strings.Join(parts, "  ")
}

func columns(t, domain, tracker, proto, status, device string, width int) string {
	return strings.Join([]string{
		pad(t, colTime),
		pad(domain, domainColumn(width)),
		pad(tracker, colTracker),
		pad(proto, colProtocol),
		pad(status, colStatus),
		device,
	}, " ")
}

func domainColumn(width int) int {
	fixed := colTime + colTracker + colProtocol + colStatus + colDevice + 5
	return max(width-fixed, 20)
}

func field(label, value string) string {
	if value == "" {
		value = explorer.Placeholder
	}
	return labelStyle.Render(label+": ") + value
}

func orAny(status string) string {
	if status == "" {
		return "any"
	}
	return status
}

func deviceName(devices []models.Device, id string) string {
	if id == "" {
		return "all"
	}
	for _, d := range devices {
		if d.ID == id {
			return d.Label()
		}
	}
	return id
}

func pad(s string, n int) string {
	if l := len([]rune(s)); l < n {
		return s + strings.Repeat(" ", n-l)
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
