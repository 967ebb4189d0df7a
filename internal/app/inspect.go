package app

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/large-farva/flybydb/internal/flybydb"
)

// ANSI escape codes for terminal formatting.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	yellow = "\033[33m"
)

// Inspect parses the existing database and prints one line per satellite.
func (a *App) Inspect(w io.Writer) error {
	f, err := a.fs.Open(a.path)
	if err != nil {
		return err
	}
	defer f.Close()

	entries, err := flybydb.Parse(f)
	if err != nil {
		return fmt.Errorf("%s: %w", a.path, err)
	}

	total := 0
	fmt.Fprintln(w)
	fmt.Fprintln(w, a.header("  FLYBY TRANSPONDER DATABASE"))
	fmt.Fprintf(w, "  %s\n\n", a.path)
	fmt.Fprintf(w, "  %s%s%s%s\n", padRight("NORAD", 8), padRight("NAME", 38), padRight("TX", 5), "DOWNLINK MHz")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 66))
	for _, e := range entries {
		n := len(e.Transponders)
		total += n
		count := padRight(fmt.Sprint(n), 5)
		if n > flybydb.MaxTransponders {
			count = a.colorize(yellow, count)
		}
		fmt.Fprintf(w, "  %s%s%s%s\n",
			padRight(fmt.Sprint(e.SatelliteID), 8),
			padRight(truncate(e.Name, 36), 38),
			count,
			downlinks(e.Transponders),
		)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %d satellites, %d transponders\n\n", len(entries), total)
	return nil
}

// downlinks lists the distinct non-zero downlink low edges of an entry.
func downlinks(tps []flybydb.Transponder) string {
	seen := map[float64]bool{}
	var out []string
	for _, tp := range tps {
		if tp.DownlinkLow == 0 || seen[tp.DownlinkLow] {
			continue
		}
		seen[tp.DownlinkLow] = true
		out = append(out, fmt.Sprintf("%.3f", tp.DownlinkLow))
	}
	if len(out) == 0 {
		return "-"
	}
	return strings.Join(out, " ")
}

func (a *App) header(title string) string {
	if a.color {
		return bold + title + reset
	}
	return title
}

// colorize wraps text with an ANSI color sequence when color is enabled.
func (a *App) colorize(color, text string) string {
	if !a.color {
		return text
	}
	return color + text + reset
}

// padRight pads s with spaces to reach the given width in runes.
func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}
