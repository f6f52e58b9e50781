// Package render draws mood series, pixel grids and streaks for terminals.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"mindspace/internal/domain"
	"mindspace/internal/insight"
)

const (
	filledCell = "■"
	emptyCell  = "·"
)

var levelColors = map[domain.MoodLevel]*color.Color{
	domain.MoodGreat: color.New(color.FgHiGreen),
	domain.MoodGood:  color.New(color.FgGreen),
	domain.MoodOkay:  color.New(color.FgYellow),
	domain.MoodLow:   color.New(color.FgHiRed),
	domain.MoodBad:   color.New(color.FgRed),
}

func paint(l domain.MoodLevel, s string) string {
	if c, ok := levelColors[l]; ok {
		return c.Sprint(s)
	}
	return color.New(color.Faint).Sprint(s)
}

// SeriesTable writes one table row per logged day with a weight bar.
func SeriesTable(w io.Writer, points []insight.DailyMoodPoint) error {
	if len(points) == 0 {
		_, err := fmt.Fprintln(w, "No entries in this window.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Date", "Mood", "Value", "Trend"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	data := make([][]string, 0, len(points))
	for _, p := range points {
		data = append(data, []string{
			p.Date,
			paint(p.Mood, p.Mood.Label()),
			strconv.Itoa(p.Value),
			paint(p.Mood, strings.Repeat(filledCell, p.Value)),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// PixelGrid writes a year grid: one line per month, one cell per day.
func PixelGrid(w io.Writer, pixels []insight.PixelDay) error {
	var (
		b       strings.Builder
		month   time.Month
		started bool
	)
	for _, p := range pixels {
		d, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			return fmt.Errorf("pixel date %q: %w", p.Date, err)
		}
		if !started || d.Month() != month {
			if started {
				b.WriteByte('\n')
			}
			month = d.Month()
			started = true
			fmt.Fprintf(&b, "%s ", d.Format("Jan"))
		}
		if p.Logged() {
			b.WriteString(paint(p.Mood, filledCell))
		} else {
			b.WriteString(paint(domain.NoMood, emptyCell))
		}
	}
	if started {
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Legend writes the mood levels, best first.
func Legend(w io.Writer) error {
	parts := make([]string, 0, len(domain.MoodLevels())+1)
	for _, l := range domain.MoodLevels() {
		info := l.Info()
		parts = append(parts, paint(l, filledCell)+" "+info.Label)
	}
	parts = append(parts, paint(domain.NoMood, emptyCell)+" no entry")
	_, err := fmt.Fprintln(w, strings.Join(parts, "  "))
	return err
}

// StreakSummary writes a one-line streak report.
func StreakSummary(w io.Writer, st insight.Streak) error {
	mode := "strict"
	if st.Flexible {
		mode = "flexible"
	}
	bold := color.New(color.Bold).SprintFunc()
	_, err := fmt.Fprintf(w, "Current streak: %s days (%s)  Longest: %d  Total days: %d  Grace left: %d\n",
		bold(st.Current), mode, st.Longest, st.Total, st.GraceDaysLeft)
	return err
}
