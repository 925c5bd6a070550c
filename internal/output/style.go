package output

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/kr/text"
)

type Style int

const (
	Prefix Style = iota
	Muted
	Bold
	Good
	Warning
	Critical
	Output
	Tag
)

var styleAttributes = map[Style][]color.Attribute{
	Prefix:   {color.FgHiBlack},
	Muted:    {color.FgHiBlack},
	Bold:     {color.FgHiWhite},
	Good:     {color.FgGreen},
	Warning:  {color.FgYellow},
	Critical: {color.FgRed},
	Output:   {color.FgCyan},
	Tag:      {color.BgHiRed, color.FgHiWhite},
}

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

func ParseColorMode(s string) (ColorMode, error) {
	switch mode := ColorMode(strings.ToLower(s)); mode {
	case ColorAuto, ColorAlways, ColorNever:
		return mode, nil
	case "":
		return ColorAuto, nil
	default:
		return "", fmt.Errorf("invalid color mode %q (use auto, always, or never)", s)
	}
}

// Styler maps styles onto terminal colors. In auto mode fatih/color
// decides from NO_COLOR and whether stdout is a terminal.
type Styler struct {
	palette map[Style]*color.Color
}

func NewStyler(mode ColorMode) *Styler {
	palette := make(map[Style]*color.Color, len(styleAttributes))
	for style, attrs := range styleAttributes {
		c := color.New(attrs...)
		switch mode {
		case ColorAlways:
			c.EnableColor()
		case ColorNever:
			c.DisableColor()
		}
		palette[style] = c
	}
	return &Styler{palette: palette}
}

func (s *Styler) Colorize(text string, style Style) string {
	c, ok := s.palette[style]
	if !ok {
		c = s.palette[Good]
	}
	return c.Sprint(text)
}

// wrapPenalty matches kr/text's cost for a word longer than the line.
const wrapPenalty = 1e5

// Wrap breaks s into lines of at most width columns where word boundaries
// allow. Empty input yields a single empty line.
func Wrap(s string, width int) []string {
	if width < 1 {
		width = 1
	}
	words := strings.Split(strings.ReplaceAll(strings.TrimSpace(s), "\n", " "), " ")

	// kr/text counts bytes, so it is handed one byte per rune of each word.
	units := make([][]byte, len(words))
	for i, word := range words {
		units[i] = bytes.Repeat([]byte{'x'}, utf8.RuneCountInString(word))
	}

	lines := make([]string, 0, 1)
	next := 0
	for _, line := range text.WrapWords(units, 1, width, wrapPenalty) {
		lines = append(lines, strings.Join(words[next:next+len(line)], " "))
		next += len(line)
	}
	return lines
}
