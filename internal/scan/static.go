package scan

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/lakshaymaurya-felt/macmole/internal/config"
	"github.com/lakshaymaurya-felt/macmole/internal/ui"
)

// sectionTitles are the display names of each category.
var sectionTitles = map[config.Category]string{
	config.CategoryCaches:          "Caches",
	config.CategoryContainerEngine: "Docker",
	config.CategoryDotCaches:       "Developer caches",
	config.CategoryLibrary:         "Library",
	config.CategoryEditorState:     "Cursor",
}

const (
	nameWidth = 40
	barWidth  = 20
)

// PrintOptions controls PrintReport.
type PrintOptions struct {
	Styler ui.Styler

	// MaxItems limits the entries listed per section; 0 lists all.
	MaxItems int

	// ShowWarnings appends failed measurements to the output.
	ShowWarnings bool
}

// PrintReport writes a plain-text view of the report, one block per
// category with entries largest first.
func PrintReport(w io.Writer, r *Report, opts PrintOptions) {
	st := opts.Styler
	if r == nil {
		fmt.Fprintln(w, "  No data to display.")
		return
	}

	fmt.Fprintf(w, "  %s\n", st.Title(ui.IconDiamond+" Disk usage: "+r.Home))
	fmt.Fprintf(w, "  Reclaimable: %s\n", st.Heading(r.Summary.TotalFormatted))
	fmt.Fprintln(w, "  "+strings.Repeat("-", 58))

	for _, sec := range r.Sections() {
		fmt.Fprintln(w)
		printSection(w, sec, r.Summary.TotalBlocks, opts)
	}

	if opts.ShowWarnings && len(r.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", st.Warning(fmt.Sprintf("%s %d measurement(s) failed and count as zero:", ui.IconWarning, len(r.Warnings))))
		for _, msg := range r.Warnings {
			fmt.Fprintf(w, "    %s\n", st.Muted(msg))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "  "+strings.Repeat("-", 58))
	fmt.Fprintf(w, "  Total: %s\n", st.Heading(r.Summary.TotalFormatted))
}

// SectionTitle returns the display name of a category.
func SectionTitle(c config.Category) string {
	if title, ok := sectionTitles[c]; ok {
		return title
	}
	return string(c)
}

func printSection(w io.Writer, sec *Section, grandTotal int64, opts PrintOptions) {
	st := opts.Styler
	title := SectionTitle(sec.Category)
	fmt.Fprintf(w, "  %s  %s\n", st.Heading(pad(title, nameWidth+6)), sec.TotalFormatted)

	if sec.Error != "" {
		fmt.Fprintf(w, "    %s\n", st.Error(ui.IconCross+" "+sec.Error))
		return
	}
	if len(sec.Items) == 0 {
		if sec.TotalBlocks > 0 {
			fmt.Fprintf(w, "    %s\n", st.Muted("(measured as a whole)"))
		} else {
			fmt.Fprintf(w, "    %s\n", st.Muted("(nothing found)"))
		}
		return
	}

	shown := sec.Items
	if opts.MaxItems > 0 && len(shown) > opts.MaxItems {
		shown = shown[:opts.MaxItems]
	}
	for i, e := range shown {
		pct := 0.0
		if grandTotal > 0 {
			pct = float64(e.SizeBlocks) / float64(grandTotal) * 100
		}
		name := e.Name
		if e.Label != "" {
			name = e.Label
		}
		fmt.Fprintf(w, "  %s %s %s  %s\n",
			st.Muted(fmt.Sprintf("%3d.", i+1)),
			st.Text(pad(truncate(name, nameWidth), nameWidth)),
			st.Dim(ui.Bar(pct, barWidth)),
			e.SizeFormatted)
	}
	if remaining := len(sec.Items) - len(shown); remaining > 0 {
		fmt.Fprintf(w, "       %s\n", st.Muted(fmt.Sprintf("... and %d more entries", remaining)))
	}
}

// truncate shortens s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}

func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
