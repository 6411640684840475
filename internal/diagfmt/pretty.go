package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"glimt/internal/diag"
	"glimt/internal/source"
)

// Pretty renders diagnostics in a human-readable form, one per entry:
//
//	<path>:<line>:<col>: <SEVERITY> <CODE>: <message>
//	    12 | {{#each names as |item|}}
//	       |   ^~~~
//
// Callers sort the bag first for a deterministic order.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := prettyPrinter{w: w, fs: fs, opts: opts}
	for _, d := range bag.Items() {
		p.diagnostic(d)
	}
}

type prettyPrinter struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts
}

func (p *prettyPrinter) diagnostic(d diag.Diagnostic) {
	p.header(d.Severity, d.Code, d.Message, d.Primary)
	if p.opts.Context {
		p.sourceLine(d.Primary)
	}
	if p.opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(p.w, "  %s: note: %s\n", p.location(n.Span), n.Msg)
		}
	}
}

func (p *prettyPrinter) header(sev diag.Severity, code diag.Code, msg string, span source.Span) {
	sevText := sev.String()
	codeText := code.ID()
	if p.opts.Color {
		sevText = severityColor(sev).Sprint(sevText)
		codeText = color.New(color.Bold).Sprint(codeText)
	}
	fmt.Fprintf(p.w, "%s: %s %s: %s\n", p.location(span), sevText, codeText, msg)
}

// sourceLine prints the offending line with an underline. Display widths go
// through runewidth so wide runes and combining marks keep the carets
// aligned with what a terminal actually shows.
func (p *prettyPrinter) sourceLine(span source.Span) {
	f := p.fs.Get(span.File)
	start, end := p.fs.Resolve(span)
	line := f.GetLine(start.Line)
	if line == "" {
		return
	}
	gutter := fmt.Sprintf("%5d | ", start.Line)
	fmt.Fprintf(p.w, "%s%s\n", gutter, line)

	prefix := substr(line, 0, start.Col-1)
	pad := strings.Repeat(" ", runewidth.StringWidth(prefix))

	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		width = runewidth.StringWidth(substr(line, start.Col-1, end.Col-1))
	}
	underline := "^"
	if width > 1 {
		underline += strings.Repeat("~", width-1)
	}
	if p.opts.Color {
		underline = color.New(color.FgHiRed, color.Bold).Sprint(underline)
	}
	fmt.Fprintf(p.w, "%s| %s%s\n", strings.Repeat(" ", 6), pad, underline)
}

func (p *prettyPrinter) location(span source.Span) string {
	f := p.fs.Get(span.File)
	start, _ := p.fs.Resolve(span)
	var path string
	switch p.opts.PathMode {
	case PathModeAbsolute:
		path = f.Path
	case PathModeBasename:
		path = basename(f.Path)
	default:
		path = f.DisplayPath(p.fs.BaseDir())
	}
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgCyan)
	}
}

// substr slices a line by rune columns, tolerating out-of-range bounds.
func substr(s string, from, to uint32) string {
	runes := []rune(s)
	if int(from) >= len(runes) {
		return ""
	}
	if int(to) > len(runes) {
		to = uint32(len(runes))
	}
	if to <= from {
		return ""
	}
	return string(runes[from:to])
}

func basename(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
