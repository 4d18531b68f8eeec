// Package printer writes log records to a plain stream for the headless
// logs command.
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"
	"github.com/mattn/go-isatty"
	"ndexplorer/internal/explorer"
	"ndexplorer/internal/models"
)

type Format int

const (
	FormatText Format = iota
	FormatJSON
)

type PrinterInterface interface {
	Records(records []models.LogRecord) error
	Summary(res explorer.FilterResult, exhausted bool) error
	Separator(at time.Time) error
}

type Printer struct {
	out    io.Writer
	format Format
	colour bool
	loc    *time.Location
	enc    *json.Encoder

	root   lipgloss.Style
	dim    lipgloss.Style
	status map[models.Status]lipgloss.Style
}

// NewPrinter colours text output only when out is a terminal.
func NewPrinter(out io.Writer, format Format, loc *time.Location) *Printer {
	if loc == nil {
		loc = time.Local
	}
	p := &Printer{
		out:    out,
		format: format,
		colour: IsTerminal(out),
		loc:    loc,
		enc:    json.NewEncoder(out),
	}
	r := lipgloss.NewRenderer(out)
	p.root = r.NewStyle().Bold(true)
	p.dim = r.NewStyle().Faint(true)
	p.status = map[models.Status]lipgloss.Style{
		models.StatusBlocked: r.NewStyle().Foreground(lipgloss.Color("203")),
		models.StatusAllowed: r.NewStyle().Foreground(lipgloss.Color("42")),
		models.StatusError:   r.NewStyle().Foreground(lipgloss.Color("214")),
	}
	return p
}

func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Printer) Records(records []models.LogRecord) error {
	for i := range records {
		if err := p.record(&records[i]); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) record(r *models.LogRecord) error {
	if p.format == FormatJSON {
		return p.enc.Encode(r)
	}

	row := explorer.NewRow(*r, p.loc)
	domain := row.Domain
	status := string(row.Status)
	if p.colour {
		if prefix, root := explorer.SplitDomain(r.Domain, r.Root); root != "" {
			domain = prefix + p.root.Render(root)
		}
		if style, ok := p.status[row.Status]; ok {
			status = style.Render(status)
		}
	}

	_, err := fmt.Fprintf(p.out, "%s  %s  %s  %s  %s  %s\n",
		row.Time, domain, row.Tracker, row.Protocol, status, row.Device)
	return err
}

// Summary goes to the text stream only; JSON output stays one record per line.
func (p *Printer) Summary(res explorer.FilterResult, exhausted bool) error {
	if p.format == FormatJSON {
		return nil
	}
	line := "Logs: " + res.CounterLabel()
	if exhausted {
		line += " (end of logs)"
	}
	if p.colour {
		line = p.dim.Render(line)
	}
	_, err := fmt.Fprintln(p.out, line)
	return err
}

func (p *Printer) Separator(at time.Time) error {
	if p.format == FormatJSON {
		return nil
	}
	line := fmt.Sprintf("-- refreshed %s %s", explorer.FormatTimestamp(at, p.loc), strings.Repeat("-", 20))
	if p.colour {
		line = p.dim.Render(line)
	}
	_, err := fmt.Fprintln(p.out, line)
	return err
}
