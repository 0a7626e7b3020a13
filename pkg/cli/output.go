package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"

	"github.com/devicelab-dev/locator-finder/pkg/export"
	"github.com/devicelab-dev/locator-finder/pkg/locator"
	"github.com/devicelab-dev/locator-finder/pkg/uitree"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// colorsEnabled determines if ANSI colors should be used
var colorsEnabled = true

func init() {
	// Respect NO_COLOR environment variable
	if os.Getenv("NO_COLOR") != "" {
		colorsEnabled = false
		return
	}
	// Check if stdout is a terminal
	if fileInfo, err := os.Stdout.Stat(); err == nil {
		if (fileInfo.Mode() & os.ModeCharDevice) == 0 {
			colorsEnabled = false
		}
	}
}

// color returns the color code if colors are enabled, empty string otherwise
func color(c string) string {
	if colorsEnabled {
		return c
	}
	return ""
}

const (
	maxCellWidth = 32
	ruleWidth    = 80
)

func rule(w io.Writer, ch string) {
	fmt.Fprintln(w, strings.Repeat(ch, ruleWidth))
}

// printTable writes rows under headers, padding by display width so wide
// (e.g. Hangul) characters line up.
func printTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	cells := make([][]string, len(rows))
	for r, row := range rows {
		cells[r] = make([]string, len(headers))
		for i := range headers {
			if i >= len(row) {
				continue
			}
			cell := runewidth.Truncate(oneLine(row[i]), maxCellWidth, "…")
			cells[r][i] = cell
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	line := func(cols []string) {
		parts := make([]string, len(cols))
		for i, col := range cols {
			parts[i] = runewidth.FillRight(col, widths[i])
		}
		fmt.Fprintln(w, strings.TrimRight("  "+strings.Join(parts, "  "), " "))
	}

	fmt.Fprint(w, color(colorBold))
	line(headers)
	fmt.Fprint(w, color(colorReset))
	for _, row := range cells {
		line(row)
	}
}

func oneLine(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func boundsCell(e *uitree.Element) string {
	if !e.HasBounds {
		return ""
	}
	b := e.Bounds
	return fmt.Sprintf("%d,%d %dx%d", b.X, b.Y, b.Width, b.Height)
}

func printElementTable(w io.Writer, elems []*uitree.Element, limit int) {
	rows := make([][]string, 0, limit)
	for i, e := range elems {
		if i == limit {
			break
		}
		rows = append(rows, []string{
			fmt.Sprint(i + 1),
			uitree.ShortType(e.Type),
			e.Name,
			e.Label,
			e.Value,
			fmt.Sprint(e.Visible),
			boundsCell(e),
		})
	}
	printTable(w, []string{"#", "TYPE", "NAME", "LABEL", "VALUE", "VISIBLE", "BOUNDS"}, rows)
	if len(elems) > limit {
		fmt.Fprintf(w, "\n  ... and %d more\n", len(elems)-limit)
	}
}

func printLocatorSet(w io.Writer, set locator.Set) {
	rec := set.Recommended()
	fmt.Fprintf(w, "\n  %sRecommended:%s %s\n", color(colorGreen), color(colorReset), rec)
	fmt.Fprintln(w, "\n  Locator options:")
	fmt.Fprintln(w, "  "+strings.Repeat("-", ruleWidth-2))
	for _, c := range set.Candidates() {
		fmt.Fprintf(w, "  %-25s %s\n", c.Strategy, c.Expression)
	}
}

func printRecord(w io.Writer, index int, r *export.Record) {
	fmt.Fprintln(w)
	rule(w, "=")
	fmt.Fprintf(w, "Result #%d\n", index)
	rule(w, "=")
	fmt.Fprintf(w, "Type:    %s\n", r.Type)
	fmt.Fprintf(w, "Name:    %s\n", orNone(r.Name))
	fmt.Fprintf(w, "Label:   %s\n", orNone(r.Label))
	fmt.Fprintf(w, "Value:   %s\n", orNone(r.Value))
	fmt.Fprintf(w, "Enabled: %t\n", r.Enabled)
	fmt.Fprintf(w, "Visible: %t\n", r.Visible)
	if r.HasBounds() {
		b := r.Bounds()
		fmt.Fprintf(w, "Bounds:  %d,%d %dx%d\n", b.X, b.Y, b.Width, b.Height)
	}
	if r.Locators != nil {
		printLocatorSet(w, *r.Locators)
	}
}

func printSummary(w io.Writer, title string, s export.Summary) {
	fmt.Fprintln(w)
	rule(w, "=")
	fmt.Fprintf(w, "%s\n", title)
	fmt.Fprintf(w, "Total elements: %d (named %d, visible %d)\n", s.Total, s.Named, s.Visible)
	rule(w, "=")
	fmt.Fprintln(w, "\nElements by type:")
	rule(w, "-")
	for _, tc := range s.Types {
		fmt.Fprintf(w, "  %s %4d\n", runewidth.FillRight(uitree.ShortType(tc.Type), 40), tc.Count)
	}
}

// expandTypes turns short type names (Button) into full XCUI types.
func expandTypes(types []string) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = expandType(t)
	}
	return out
}

func expandType(t string) string {
	if t == "" || strings.HasPrefix(t, uitree.TypePrefix) {
		return t
	}
	return uitree.TypePrefix + t
}
