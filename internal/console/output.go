package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#92400E")
)

// printer writes styled text. Styles are bound to the output so colors
// are dropped when it is not a terminal.
type printer struct {
	out io.Writer

	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	info    lipgloss.Style
	muted   lipgloss.Style
	primary lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
}

func newPrinter(out io.Writer) *printer {
	r := lipgloss.NewRenderer(out)
	return &printer{
		out:     out,
		success: r.NewStyle().Foreground(colorSuccess).Bold(true),
		warning: r.NewStyle().Foreground(colorWarning).Bold(true),
		failure: r.NewStyle().Foreground(colorError).Bold(true),
		info:    r.NewStyle().Foreground(colorInfo),
		muted:   r.NewStyle().Foreground(colorMuted),
		primary: r.NewStyle().Foreground(colorPrimary).Bold(true),
		header:  r.NewStyle().Bold(true).Padding(0, 1),
		cell:    r.NewStyle().Padding(0, 1),
	}
}

func (p *printer) Println(a ...interface{}) {
	fmt.Fprintln(p.out, a...)
}

func (p *printer) Printf(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *printer) Success(format string, args ...interface{}) {
	fmt.Fprint(p.out, p.success.Render("✓ "))
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *printer) Warning(format string, args ...interface{}) {
	fmt.Fprint(p.out, p.warning.Render("⚠ "))
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *printer) Error(format string, args ...interface{}) {
	fmt.Fprint(p.out, p.failure.Render("✗ "))
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *printer) Info(format string, args ...interface{}) {
	fmt.Fprint(p.out, p.info.Render("ℹ "))
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *printer) Muted(format string, args ...interface{}) {
	fmt.Fprintln(p.out, p.muted.Render(fmt.Sprintf(format, args...)))
}

// Section prints a title underlined to its width.
func (p *printer) Section(title string) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.primary.Render(title))
	fmt.Fprintln(p.out, p.muted.Render(strings.Repeat("═", lipgloss.Width(title))))
}

// Field prints a labelled value, skipping empty values.
func (p *printer) Field(label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.muted.Render(label+":"), value)
}

func (p *printer) Table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.muted).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.header
			}
			return p.cell
		})
	fmt.Fprintln(p.out, t.Render())
}
