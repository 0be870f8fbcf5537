package presenter

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guregu/null/v6"

	"TickerLens/internal/model"
)

// DefaultSparkPoints is how many trailing points each sparkline shows.
const DefaultSparkPoints = 60

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sink receives the outcome of one analysis run.
type Sink interface {
	Present(res *model.AnalysisResult) error
	PresentError(err error)
}

// Terminal renders results to a writer: the summary block, then one
// sparkline row per chart line.
type Terminal struct {
	Out         io.Writer
	SparkPoints int

	title lipgloss.Style
	box   lipgloss.Style
	label lipgloss.Style
	muted lipgloss.Style
	fail  lipgloss.Style
}

// NewTerminal creates a terminal sink. Colors are dropped when out is not a TTY.
func NewTerminal(out io.Writer) *Terminal {
	r := lipgloss.NewRenderer(out)
	return &Terminal{
		Out:         out,
		SparkPoints: DefaultSparkPoints,
		title:       r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		box:         r.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		label:       r.NewStyle().Bold(true),
		muted:       r.NewStyle().Faint(true),
		fail:        r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
}

// Present writes the summary and charts for res.
func (t *Terminal) Present(res *model.AnalysisResult) error {
	var b strings.Builder
	b.WriteString(t.title.Render(res.Symbol + " analysis"))
	b.WriteString("\n")
	b.WriteString(t.box.Render(strings.TrimRight(FormatSummary(res), "\n")))
	b.WriteString("\n")

	for _, c := range BuildCharts(res) {
		b.WriteString("\n")
		b.WriteString(t.renderChart(c))
	}
	_, err := io.WriteString(t.Out, b.String())
	return err
}

// PresentError writes the user-facing message for a failed run. No charts
// are drawn.
func (t *Terminal) PresentError(err error) {
	fmt.Fprintln(t.Out, t.fail.Render(ErrorMessage(err)))
}

func (t *Terminal) renderChart(c Chart) string {
	n := t.SparkPoints
	if n <= 0 {
		n = DefaultSparkPoints
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, l := range c.Lines {
		for _, v := range tail(l.Values, n) {
			if v.Valid {
				lo = math.Min(lo, v.Float64)
				hi = math.Max(hi, v.Float64)
			}
		}
	}

	var b strings.Builder
	b.WriteString(t.label.Render(c.Title))
	b.WriteString("\n")
	for _, l := range c.Lines {
		vals := tail(l.Values, n)
		fmt.Fprintf(&b, "  %-8s %s %s\n", l.Label, sparkline(vals, lo, hi), lastValue(vals))
	}
	if len(c.ReferenceLines) > 0 {
		refs := make([]string, len(c.ReferenceLines))
		for i, r := range c.ReferenceLines {
			refs[i] = fmt.Sprintf("%g", r)
		}
		b.WriteString(t.muted.Render("  reference: " + strings.Join(refs, ", ")))
		b.WriteString("\n")
	}
	return b.String()
}

func tail(v []null.Float, n int) []null.Float {
	if len(v) > n {
		return v[len(v)-n:]
	}
	return v
}

// sparkline scales vals into block runes over [lo, hi]. Null points are blank.
func sparkline(vals []null.Float, lo, hi float64) string {
	out := make([]rune, len(vals))
	span := hi - lo
	for i, v := range vals {
		if !v.Valid {
			out[i] = ' '
			continue
		}
		idx := 0
		if span > 0 {
			idx = int((v.Float64 - lo) / span * float64(len(sparkRunes)-1))
		}
		out[i] = sparkRunes[idx]
	}
	return string(out)
}

func lastValue(vals []null.Float) string {
	if len(vals) == 0 || !vals[len(vals)-1].Valid {
		return Unavailable
	}
	return fmt.Sprintf("%.2f", vals[len(vals)-1].Float64)
}
