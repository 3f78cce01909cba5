package textutil

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ContainsJapanese checks if a string contains kana or kanji.
func ContainsJapanese(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han) {
			return true
		}
	}
	return false
}

// IsBlank reports whether s is empty or only white space.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Hash computes a SHA-256 hex hash of a string for deduplication.
func Hash(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// Truncate shortens a string to maxLen runes, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen]) + "..."
}

// CharCount returns the total number of runes in strs.
func CharCount(strs []string) int {
	n := 0
	for _, s := range strs {
		n += utf8.RuneCountInString(s)
	}
	return n
}
