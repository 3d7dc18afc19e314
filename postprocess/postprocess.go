// Package postprocess holds the mode-specific cleanup applied after
// recognition.
package postprocess

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ContentMode selects which cleanup strategy runs on recognized text.
type ContentMode int

const (
	ModeText ContentMode = iota
	ModeTable
)

func (m ContentMode) String() string {
	if m == ModeTable {
		return "table"
	}
	return "text"
}

// ParseMode maps a user-facing mode name to a ContentMode. Unknown values
// fall back to text mode.
func ParseMode(s string) ContentMode {
	if strings.ToLower(strings.TrimSpace(s)) == "table" {
		return ModeTable
	}
	return ModeText
}

// CleanFunc is one cleanup strategy; both strategies are pure.
type CleanFunc func(string) string

// ForMode returns the cleanup strategy for a mode.
func ForMode(m ContentMode) CleanFunc {
	if m == ModeTable {
		return CleanTable
	}
	return CleanText
}

// bulletRunes maps the bullet glyph zoo recognizers emit to one canonical
// bullet.
var bulletRunes = map[rune]rune{
	'◉': '•', '○': '•', '◦': '•', '∘': '•', '∙': '•',
	'·': '•', '⦿': '•', '⦾': '•', '⦁': '•', '▪': '•',
	'▫': '•', '■': '•', '□': '•', '◆': '•', '◇': '•',
	'►': '•', '‣': '•', '⁃': '•', '⌂': '•', '⚫': '•',
}

var (
	dashBulletRe  = regexp.MustCompile(`(?m)^(\s*)[-–—]\s+`)
	tightBulletRe = regexp.MustCompile(`•(\S)`)
	blankRunsRe   = regexp.MustCompile(`\n{3,}`)
	zeroWidthRe   = regexp.MustCompile("[\\x{200B}-\\x{200F}\\x{FEFF}]")
	spaceRunsRe   = regexp.MustCompile(`[ \t]{2,}`)
)

// CleanText is the free-text pipeline: bullet normalization and blank-line
// collapsing.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	text = normalizeBullets(text)
	text = blankRunsRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

func normalizeBullets(text string) string {
	text = strings.Map(func(r rune) rune {
		if canonical, ok := bulletRunes[r]; ok {
			return canonical
		}
		return r
	}, text)

	text = dashBulletRe.ReplaceAllString(text, "$1• ")
	text = tightBulletRe.ReplaceAllString(text, "• $1")

	return text
}

// CleanTable reconciles cell counts across tab-separated rows: every row is
// padded to the widest row so downstream consumers see a rectangular table.
func CleanTable(text string) string {
	if text == "" {
		return ""
	}

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")

	maxCols := 0
	rows := make([][]string, len(lines))
	for i, line := range lines {
		rows[i] = strings.Split(line, "\t")
		if len(rows[i]) > maxCols {
			maxCols = len(rows[i])
		}
	}
	if maxCols <= 1 {
		// Not tabular; leave untouched.
		return text
	}

	var b strings.Builder
	for i, cells := range rows {
		for len(cells) < maxCols {
			cells = append(cells, "")
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(cells, "\t"))
	}
	return b.String()
}

// CleanDevanagari applies NFC normalization and strips zero-width
// characters; recognizers leak both into connected-script output.
func CleanDevanagari(text string) string {
	if text == "" {
		return ""
	}
	text = norm.NFC.String(text)
	text = zeroWidthRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// CollapseSpaces squeezes runs of spaces and tabs; used by callers that
// flatten multi-column text into prose.
func CollapseSpaces(text string) string {
	return spaceRunsRe.ReplaceAllString(text, " ")
}
