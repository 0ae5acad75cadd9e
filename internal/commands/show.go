package commands

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"

	"github.com/klabast/wb-services/trash-calendar/internal/app"
	"github.com/klabast/wb-services/trash-calendar/internal/holidays"
	"github.com/klabast/wb-services/trash-calendar/internal/schedule"
)

const monthsPerRow = 3

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FEC260"))
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A5B4FC"))
	trashStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#34D399"))
	recyclingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#60A5FA"))
	holidayStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F97316"))
	todayStyle     = lipgloss.NewStyle().Reverse(true)
	legendStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	blockStyle     = lipgloss.NewStyle().MarginRight(3).MarginBottom(1)
)

var weekdayHeader = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

// Show handles the show subcommand
func Show(args []string) {
	cfg := app.DefaultConfig()
	now := time.Now().In(cfg.Location())

	fs := flag.NewFlagSet("show", flag.ExitOnError)
	street := fs.String("street", "", "Street name (required)")
	year := fs.Int("year", now.Year(), "Year to show")
	month := fs.Int("month", 0, "Month 1-12 (default: the rest of the year)")
	dataDir := fs.String("data", cfg.DataDir, "Directory holding the street schedule")
	noColor := fs.Bool("no-color", false, "Disable colors")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: trash-calendar show -street NAME [OPTIONS]\n\n")
		fmt.Fprintf(os.Stderr, "Prints the collection calendar of a street.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)
	cfg.DataDir = *dataDir

	if *street == "" {
		fs.Usage()
		os.Exit(2)
	}

	months, err := monthRange(*year, *month, now)
	if err != nil {
		fail("Error: %v", err)
	}

	osFs := afero.NewOsFs()
	store := app.NewStreetStore(osFs, cfg.StreetPath())
	if err := store.Load(); err != nil {
		fail("Error loading street schedule: %v", err)
	}
	st, ok := store.Lookup(*street)
	if !ok {
		fail("Street not found: %s", *street)
	}

	provider, err := holidays.Open(osFs, cfg.HolidayPath())
	if err != nil {
		fail("Error loading holidays: %v", err)
	}

	color := !*noColor && os.Getenv("NO_COLOR") == "" && isatty.IsTerminal(os.Stdout.Fd())
	today := schedule.Date(now.Year(), now.Month(), now.Day())
	r := &Renderer{Engine: schedule.NewEngine(provider), Color: color, Today: today}
	if err := r.Render(os.Stdout, st, *year, months); err != nil {
		fail("Error: %v", err)
	}
}

// monthRange picks the months to print: one month, or the current month through December
func monthRange(year, month int, now time.Time) ([]time.Month, error) {
	if month != 0 {
		if month < 1 || month > 12 {
			return nil, fmt.Errorf("month must be 1-12, got %d", month)
		}
		return []time.Month{time.Month(month)}, nil
	}

	from := time.January
	if year == now.Year() {
		from = now.Month()
	}
	var months []time.Month
	for m := from; m <= time.December; m++ {
		months = append(months, m)
	}
	return months, nil
}

// Renderer draws month grids for the terminal
type Renderer struct {
	Engine *schedule.Engine
	Color  bool
	Today  time.Time
}

func (r *Renderer) paint(style lipgloss.Style, s string) string {
	if !r.Color {
		return s
	}
	return style.Render(s)
}

// Render writes the grids of months, three per row, followed by a legend
func (r *Renderer) Render(w io.Writer, street app.Street, year int, months []time.Month) error {
	_, weekday, err := app.ParseCollectionDay(street.Day)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, r.paint(titleStyle, fmt.Sprintf("%s - %s pickup", app.FormatStreetName(street.Name), street.Day)))
	fmt.Fprintln(w)

	var row []string
	for i, m := range months {
		block, err := r.Month(year, m, weekday)
		if err != nil {
			return err
		}
		row = append(row, blockStyle.Render(block))
		if len(row) == monthsPerRow || i == len(months)-1 {
			fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = row[:0]
		}
	}

	_, err = fmt.Fprintln(w, r.paint(legendStyle, "T trash  R trash & recycling  H holiday  t/r moved by a holiday"))
	return err
}

// Month renders one month as a title, a weekday header and up to six week rows
func (r *Renderer) Month(year int, month time.Month, pickup time.Weekday) (string, error) {
	days, err := r.Engine.Month(year, month, pickup)
	if err != nil {
		return "", err
	}

	header := make([]string, len(weekdayHeader))
	for i, name := range weekdayHeader {
		header[i] = fmt.Sprintf("%-3s", name)
	}
	headerLine := strings.Join(header, " ")

	lines := []string{
		r.paint(titleStyle, lipgloss.PlaceHorizontal(len(headerLine), lipgloss.Center, fmt.Sprintf("%s %d", month, year))),
		r.paint(headerStyle, headerLine),
	}

	week := make([]string, 0, 7)
	for i := 0; i < int(days[0].Date.Weekday()); i++ {
		week = append(week, "   ")
	}
	for _, d := range days {
		week = append(week, r.cell(d))
		if len(week) == 7 {
			lines = append(lines, strings.Join(week, " "))
			week = week[:0]
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, "   ")
		}
		lines = append(lines, strings.Join(week, " "))
	}

	return strings.Join(lines, "\n"), nil
}

func (r *Renderer) cell(d schedule.Day) string {
	mark, style := " ", lipgloss.NewStyle()
	switch {
	case d.IsPickup && d.IsRecycling:
		mark, style = "R", recyclingStyle
	case d.IsPickup:
		mark, style = "T", trashStyle
	case d.IsHolidayAffectingPickup:
		mark, style = "H", holidayStyle
	}
	if d.IsAdjusted {
		mark = strings.ToLower(mark)
	}
	if d.Date.Equal(r.Today) {
		style = style.Inherit(todayStyle)
	}
	text := fmt.Sprintf("%2d%s", d.Date.Day(), mark)
	if mark == " " && !d.Date.Equal(r.Today) {
		return text
	}
	return r.paint(style, text)
}
