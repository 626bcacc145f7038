package commands

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/klabast/wb-services/study-diary/internal/app"
)

// DefaultNickname is used in exports when no name is given
const DefaultNickname = "학습자"

// Export handles the export subcommand
func Export(args []string, cfg *app.Config, out io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	format := fs.String("format", app.FormatICS, "Output format: ics, csv or json")
	output := fs.String("o", "", "Write to file instead of stdout")
	nickname := fs.String("nickname", cfg.DevNickname, "Name shown in the calendar title")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: study-diary export [OPTIONS]\n\n")
		fmt.Fprintf(fs.Output(), "Exports every studied day.\n\n")
		fmt.Fprintf(fs.Output(), "Options:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, ok := app.ContentType(*format); !ok {
		return fmt.Errorf("unsupported format %q", *format)
	}
	if *nickname == "" {
		*nickname = DefaultNickname
	}

	d, _, closeStore, err := openDiary(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	w := out
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", *output, err)
		}
		defer f.Close()
		w = f
	}

	if err := app.Export(w, *format, *nickname, d.Progress(), time.Now()); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}
	if *output != "" {
		logger.Printf("✅ Exported %d days to %s", len(d.Progress()), *output)
	}
	return nil
}
