package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"obanlint/internal/diag"
	"obanlint/internal/source"
)

// Pretty formats diagnostics for humans. It iterates bag.Items() (call
// bag.Sort() beforehand) and prints one block per diagnostic:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	    <source line>
//	    ^~~~~
//
// followed by notes in the same shape when ShowNotes is set. Color is
// applied per severity and controlled by opts.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		writeHeading(w, fs, d.Primary, d.Severity.String(), d.Code.ID(), d.Message, opts)
		writeUnderline(w, fs, d.Primary, opts)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			writeHeading(w, fs, n.Span, "NOTE", "", n.Msg, opts)
			writeUnderline(w, fs, n.Span, opts)
		}
	}
}

func writeHeading(w io.Writer, fs *source.FileSet, span source.Span, sev, code, msg string, opts PrettyOpts) {
	start, _ := fs.Resolve(span)
	label := sev
	if code != "" {
		label = sev + " " + code
	}
	fmt.Fprintf(w, "%s:%d:%d: %s: %s\n",
		displayPath(fs, span.File, opts.PathMode),
		start.Line, start.Col,
		paint(label, sev, opts.Color),
		msg)
}

// writeUnderline prints the source line the span starts on with a caret
// run underneath. The caret run is sized in display cells so wide runes
// underline correctly.
func writeUnderline(w io.Writer, fs *source.FileSet, span source.Span, opts PrettyOpts) {
	f := fs.Get(span.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(span)
	line := f.GetLine(start.Line)
	if line == "" {
		return
	}

	fmt.Fprintf(w, "    %s\n", line)

	startCol := int(start.Col)
	endCol := int(end.Col)
	if end.Line != start.Line || endCol <= startCol {
		endCol = startCol + 1
	}
	pad := runewidth.StringWidth(sliceCols(line, 1, startCol))
	width := runewidth.StringWidth(sliceCols(line, startCol, endCol))
	if width < 1 {
		width = 1
	}
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "    %s%s\n", strings.Repeat(" ", pad), paint(marker, "MARK", opts.Color))
}

// sliceCols returns the rune range [from, to) of line in 1-based columns.
func sliceCols(line string, from, to int) string {
	runes := []rune(line)
	from--
	to--
	if from < 0 {
		from = 0
	}
	if to > len(runes) {
		to = len(runes)
	}
	if from >= to {
		return ""
	}
	return string(runes[from:to])
}

func paint(text, sev string, enabled bool) string {
	if !enabled {
		return text
	}
	var c *color.Color
	switch sev {
	case "ERROR":
		c = color.New(color.FgRed, color.Bold)
	case "WARNING", "MARK":
		c = color.New(color.FgYellow)
	case "NOTE":
		c = color.New(color.FgCyan)
	default:
		c = color.New(color.FgCyan)
	}
	c.EnableColor()
	return c.Sprint(text)
}

func displayPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	f := fs.Get(id)
	if f == nil {
		return "<unknown>"
	}
	switch mode {
	case PathModeAbsolute:
		return f.Path
	case PathModeBasename:
		return filepath.Base(f.Path)
	case PathModeRelative, PathModeAuto:
		return f.RelPath(fs.BaseDir())
	default:
		return f.Path
	}
}
