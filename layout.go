package lingolens

import (
	"strings"
	"unicode/utf8"
)

const (
	defaultMaxLines        = 2
	defaultMaxCharsPerLine = 20
	defaultPlaceholder     = "Unknown"

	ellipsis = "..."
)

// LayoutOptions bounds the text packed onto a label.
type LayoutOptions struct {
	MaxLines        int
	MaxCharsPerLine int
	// Placeholder is shown for an empty or whitespace-only label.
	Placeholder string
}

// DefaultLayoutOptions returns two lines of twenty characters.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		MaxLines:        defaultMaxLines,
		MaxCharsPerLine: defaultMaxCharsPerLine,
		Placeholder:     defaultPlaceholder,
	}
}

func (o LayoutOptions) withDefaults() LayoutOptions {
	if o.MaxLines <= 0 {
		o.MaxLines = defaultMaxLines
	}
	if o.MaxCharsPerLine <= len(ellipsis) {
		o.MaxCharsPerLine = defaultMaxCharsPerLine
	}
	if o.Placeholder == "" {
		o.Placeholder = defaultPlaceholder
	}
	return o
}

// TextBlock is the laid-out form of a label: 1..MaxLines display lines in
// reading order.
type TextBlock struct {
	Lines     []string
	Truncated bool
}

// RenderLines returns the lines in the order a surface should emit them.
// Surfaces whose vertical axis points up place the first emitted line at the
// bottom, so they need the reading order reversed.
func (b TextBlock) RenderLines(yUp bool) []string {
	out := make([]string, len(b.Lines))
	if !yUp {
		copy(out, b.Lines)
		return out
	}
	for i, line := range b.Lines {
		out[len(b.Lines)-1-i] = line
	}
	return out
}

// LongestLine returns the rune count of the widest line.
func (b TextBlock) LongestLine() int {
	longest := 0
	for _, line := range b.Lines {
		if n := utf8.RuneCountInString(line); n > longest {
			longest = n
		}
	}
	return longest
}

// Layout greedily packs the whitespace-separated words of label into at most
// opts.MaxLines lines of opts.MaxCharsPerLine runes. Overflow on the last line
// is cut to make room for "...". A single word wider than a line that starts
// a non-last line is cut to the line width and its remainder dropped; the
// block is then marked Truncated.
//
// Runs of whitespace count as one separator, so lengths are measured on the
// normalised label: "a" followed by fifty spaces and "b" is the three-rune
// label "a b" and fits on one line.
func Layout(label string, opts LayoutOptions) TextBlock {
	opts = opts.withDefaults()
	maxChars := opts.MaxCharsPerLine

	words := strings.Fields(label)
	if len(words) == 0 {
		return TextBlock{Lines: []string{opts.Placeholder}}
	}

	var (
		lines     []string
		cur       string
		truncated bool
		i         int
	)

pack:
	for i < len(words) {
		w := words[i]
		if fits(cur, w, maxChars) {
			cur = joinWord(cur, w)
			i++
			continue
		}

		lastLine := len(lines) == opts.MaxLines-1
		switch {
		case lastLine && cur == "":
			cur = ellipsize(w, maxChars)
			truncated = true
			i++
			break pack
		case lastLine:
			break pack
		case cur == "":
			cur, _ = splitRunes(w, maxChars)
			truncated = true
			i++
		default:
			lines = append(lines, cur)
			cur = ""
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}

	if i < len(words) {
		last := len(lines) - 1
		lines[last] = ellipsize(lines[last], maxChars)
		truncated = true
	}

	return TextBlock{Lines: lines, Truncated: truncated}
}

// fits reports whether w can be appended to cur, with a separating space,
// without exceeding max runes.
func fits(cur, w string, max int) bool {
	n := utf8.RuneCountInString(w)
	if cur != "" {
		n += utf8.RuneCountInString(cur) + 1
	}
	return n <= max
}

func joinWord(cur, w string) string {
	if cur == "" {
		return w
	}
	return cur + " " + w
}

// splitRunes cuts s after n runes.
func splitRunes(s string, n int) (head, tail string) {
	r := []rune(s)
	if len(r) <= n {
		return s, ""
	}
	return string(r[:n]), string(r[n:])
}

// ellipsize shortens s to max-3 runes and appends "...". Strings that
// already end in "..." and fit are returned unchanged.
func ellipsize(s string, max int) string {
	if strings.HasSuffix(s, ellipsis) && utf8.RuneCountInString(s) <= max {
		return s
	}
	head, _ := splitRunes(s, max-len(ellipsis))
	return strings.TrimRight(head, " ") + ellipsis
}
