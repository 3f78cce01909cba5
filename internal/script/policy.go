package script

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Mode selects how aggressively string literals are treated as display text.
// The same mode must be used for extraction and substitution over a file set.
type Mode string

const (
	// ModeStrict only accepts literals wrapped as a whole in the display tag.
	ModeStrict Mode = "strict"
	// ModeHeuristic also accepts sentence-like literals in the source script.
	ModeHeuristic Mode = "heuristic"
)

// Modes lists the accepted mode names, default first.
var Modes = []Mode{ModeHeuristic, ModeStrict}

// modeAliases maps alternative spellings to a mode.
var modeAliases = map[string]Mode{
	"strict":    ModeStrict,
	"html":      ModeStrict,
	"heuristic": ModeHeuristic,
}

// ParseMode resolves a mode name, accepting "html" as an alias for strict.
func ParseMode(s string) (Mode, error) {
	if m, ok := modeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w: %q (use one of %v)", ErrUnknownMode, s, Modes)
}

// Defaults for the Japanese source scripts this tool was built for.
const (
	DefaultWrapTag      = "html"
	DefaultPunctuation  = "「」、。？…"
	DefaultMinLetterRun = 6
)

// DefaultLetterCategory is Unicode "Lo" (other letter): kana, kanji, hangul
// syllables and similar syllabic or ideographic scripts.
var DefaultLetterCategory = unicode.Lo

// Policy is the inclusion heuristic. The zero value is not usable; build
// one with NewPolicy and adjust the exported fields if needed.
type Policy struct {
	Mode Mode
	// Wrapped matches content that is one display block as a whole.
	Wrapped *regexp.Regexp
	// Punctuation holds sentence-delimiting runes; any of them marks text.
	Punctuation string
	// LetterCategory and MinLetterRun define a bare run of script letters.
	LetterCategory *unicode.RangeTable
	MinLetterRun   int
}

// NewPolicy returns the default policy for mode.
func NewPolicy(mode Mode) Policy {
	return Policy{
		Mode:           mode,
		Wrapped:        WrapPattern(DefaultWrapTag),
		Punctuation:    DefaultPunctuation,
		LetterCategory: DefaultLetterCategory,
		MinLetterRun:   DefaultMinLetterRun,
	}
}

// WrapPattern builds the whole-content pattern for <tag>...</tag>.
// The inner run does not cross a newline.
func WrapPattern(tag string) *regexp.Regexp {
	t := regexp.QuoteMeta(tag)
	return regexp.MustCompile(`^<` + t + `>.*</` + t + `>$`)
}

// ShouldInclude reports whether a literal's content is translatable text.
// Checks run in order: wrapped block, punctuation, letter run. Default is
// to exclude.
func (p Policy) ShouldInclude(content string) bool {
	if p.Wrapped != nil && p.Wrapped.MatchString(content) {
		return true
	}
	if p.Mode != ModeHeuristic {
		return false
	}
	if p.Punctuation != "" && strings.ContainsAny(content, p.Punctuation) {
		return true
	}
	return p.isLetterRun(content)
}

// isLetterRun reports whether content is MinLetterRun or more runes, all in
// LetterCategory.
func (p Policy) isLetterRun(content string) bool {
	if p.LetterCategory == nil || p.MinLetterRun <= 0 {
		return false
	}
	if utf8.RuneCountInString(content) < p.MinLetterRun {
		return false
	}
	for _, r := range content {
		if !unicode.Is(p.LetterCategory, r) {
			return false
		}
	}
	return true
}
