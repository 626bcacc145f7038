package commands

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/klabast/wb-services/study-diary/internal/app"
	"github.com/klabast/wb-services/study-diary/internal/calendar"
	"github.com/klabast/wb-services/study-diary/internal/store"
)

const (
	compactCellWidth = 5
	wideCellWidth    = 8
)

// Show handles the show subcommand: it prints one month of the diary
func Show(args []string, cfg *app.Config, out io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	monthFlag := fs.String("month", "", "Month to show as YYYY-MM (default: current month)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: study-diary show [OPTIONS]\n\n")
		fmt.Fprintf(fs.Output(), "Prints the month grid with completed periods per day.\n\n")
		fmt.Fprintf(fs.Output(), "Options:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	now := time.Now()
	month := calendar.MonthOf(now)
	if *monthFlag != "" {
		t, err := time.ParseInLocation("2006-01", *monthFlag, time.Local)
		if err != nil {
			return fmt.Errorf("invalid month %q, expected YYYY-MM", *monthFlag)
		}
		month = calendar.MonthOf(t)
	}

	d, s, closeStore, err := openDiary(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	state := calendar.NewState(d.Progress(), now).GoTo(month)
	RenderMonth(out, calendar.BuildView(state, now), cellWidthFor(out))

	stats := d.Stats(&month)
	fmt.Fprintf(out, "\n공부한 날 %d일 · 완료한 교시 %d · %d교시 모두 완료 %d일\n",
		stats.StudiedDays, stats.CheckedPeriods, calendar.PeriodsPerDay, stats.FullDays)
	if saved, ok := store.LastSaved(s, calendar.StorageKey); ok {
		fmt.Fprintf(out, "마지막 저장: %s\n", saved.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// cellWidthFor picks wide cells when out is a terminal with room for them
func cellWidthFor(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return compactCellWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width < wideCellWidth*calendar.DaysPerWeek {
		return compactCellWidth
	}
	return wideCellWidth
}

// RenderMonth writes v as a 6x7 grid. Colors are only emitted when out
// supports them.
func RenderMonth(out io.Writer, v calendar.View, cellWidth int) {
	r := lipgloss.NewRenderer(out)
	base := r.NewStyle().Width(cellWidth)
	red := lipgloss.Color("9")

	fmt.Fprintln(out, r.NewStyle().Bold(true).Render(v.Title))

	var line strings.Builder
	for i, name := range v.Weekdays {
		style := base.Faint(true)
		if i == 0 {
			style = base.Foreground(red)
		}
		line.WriteString(style.Render(name))
	}
	fmt.Fprintln(out, strings.TrimRight(line.String(), " "))
	line.Reset()

	for i, c := range v.Cells {
		line.WriteString(cellStyle(base, c, red).Render(cellText(c, cellWidth)))
		if (i+1)%calendar.DaysPerWeek == 0 {
			fmt.Fprintln(out, strings.TrimRight(line.String(), " "))
			line.Reset()
		}
	}
}

func cellText(c calendar.Cell, cellWidth int) string {
	text := fmt.Sprintf("%2d", c.Day)
	if c.Completed == 0 {
		return text
	}
	if cellWidth >= wideCellWidth {
		return fmt.Sprintf("%s %d/%d", text, c.Completed, calendar.PeriodsPerDay)
	}
	return fmt.Sprintf("%s %d", text, c.Completed)
}

func cellStyle(base lipgloss.Style, c calendar.Cell, red lipgloss.Color) lipgloss.Style {
	style := base
	switch {
	case !c.InMonth:
		return style.Faint(true)
	case c.Completed == calendar.PeriodsPerDay:
		style = style.Foreground(lipgloss.Color("10"))
	case c.Completed > 0:
		style = style.Foreground(lipgloss.Color("12"))
	case c.Weekday == int(time.Sunday) || c.Holiday != "":
		style = style.Foreground(red)
	}
	if c.Today {
		style = style.Bold(true).Underline(true)
	}
	return style
}
