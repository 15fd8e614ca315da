package changelog

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/ariel-frischer/bump/internal/output"
)

// FormatOptions controls how `bump changelog show` renders releases.
type FormatOptions struct {
	Plain    bool // no colors or icons
	MaxWidth int  // wrap width; 0 uses the terminal width
}

const (
	bulletPrefix       = "  - "
	continuationIndent = "    "
)

type palette struct {
	color *color.Color
	icon  string
}

var palettes = map[Category]palette{
	Added:      {color.New(color.FgGreen), "✓"},
	Changed:    {color.New(color.FgBlue), "~"},
	Deprecated: {color.New(color.FgRed), "⚠"},
	Removed:    {color.New(color.FgRed), "✗"},
	Fixed:      {color.New(color.FgYellow), "⚡"},
	Security:   {color.New(color.FgMagenta), "🔒"},
}

var (
	titleStyle    = color.New(color.Bold)
	breakingStyle = color.New(color.FgRed, color.Bold)
)

// FormatRelease writes one release: its title, then every non-empty
// category in Keep a Changelog order.
func FormatRelease(r *Release, w io.Writer, opts FormatOptions) error {
	v := newView(w, opts)
	v.title(r.Version, r.Date)
	v.changes(&r.Changes)
	return v.err
}

// FormatTerminal writes flattened entries, starting a new titled block
// whenever the version changes. Within a block entries are regrouped by
// category.
func FormatTerminal(entries []Entry, w io.Writer, opts FormatOptions) error {
	v := newView(w, opts)
	for i := 0; i < len(entries); {
		j := i
		var block Changes
		for ; j < len(entries) && entries[j].Version == entries[i].Version; j++ {
			block.Add(entries[j].Category, entries[j].Text)
		}

		if i > 0 {
			v.printf("\n")
		}
		v.title(entries[i].Version, "")
		v.changes(&block)
		i = j
	}
	return v.err
}

// view writes changelog sections and keeps the first write error.
type view struct {
	w     io.Writer
	opts  FormatOptions
	width int
	err   error
}

func newView(w io.Writer, opts FormatOptions) *view {
	width := opts.MaxWidth
	if width <= 0 {
		width = output.GetTerminalWidth()
	}
	return &view{w: w, opts: opts, width: width}
}

func (v *view) printf(format string, args ...interface{}) {
	if v.err != nil {
		return
	}
	_, v.err = fmt.Fprintf(v.w, format, args...)
}

func (v *view) title(version, date string) {
	var t string
	switch {
	case NormalizeVersion(version) == "unreleased":
		t = "Unreleased"
	case date != "":
		t = fmt.Sprintf("v%s (%s)", version, date)
	default:
		t = "v" + version
	}
	if !v.opts.Plain {
		t = titleStyle.Sprint(t)
	}
	v.printf("## %s\n", t)
}

func (v *view) changes(c *Changes) {
	for _, cat := range Categories() {
		if texts := c.In(cat); len(texts) > 0 {
			v.section(cat, texts)
		}
	}
}

func (v *view) section(cat Category, texts []string) {
	p := palettes[cat]
	if v.opts.Plain {
		v.printf("\n### %s\n", cat)
	} else {
		v.printf("\n%s %s\n", p.color.Sprint(p.icon), p.color.Sprint(cat.String()))
	}
	for _, text := range texts {
		v.bullet(p, text)
	}
}

// bullet writes one entry. The Markdown breaking marker becomes a
// "BREAKING:" label, red unless output is plain.
func (v *view) bullet(p palette, text string) {
	label := ""
	if rest, ok := strings.CutPrefix(text, BreakingMarker); ok {
		text, label = rest, "BREAKING: "
	}

	body := wrapText(text, v.width-len(bulletPrefix)-len(label), continuationIndent)
	if !v.opts.Plain {
		body = p.color.Sprint(body)
		if label != "" {
			label = breakingStyle.Sprint("BREAKING:") + " "
		}
	}
	v.printf("%s%s%s\n", bulletPrefix, label, body)
}

// wrapText breaks text between words so no line exceeds width, indenting
// continuation lines. A single word longer than width stays whole.
func wrapText(text string, width int, indent string) string {
	words := strings.Fields(text)
	if width <= 0 || len(text) <= width || len(words) == 0 {
		return text
	}

	var b strings.Builder
	lineLen := 0
	for i, word := range words {
		switch {
		case i == 0:
		case lineLen+1+len(word) > width:
			b.WriteString("\n" + indent)
			lineLen = 0
		default:
			b.WriteByte(' ')
			lineLen++
		}
		b.WriteString(word)
		lineLen += len(word)
	}
	return b.String()
}
