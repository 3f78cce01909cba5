package script

import "regexp"

// whitespace mirrors the Unicode white-space set, not just ASCII \s, so an
// ideographic space next to a tag is absorbed into the markup run.
const whitespace = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]*`

// markupPattern matches an element tag (opening, closing or self-closing)
// or a named/numeric character reference, with surrounding whitespace.
var markupPattern = regexp.MustCompile(
	whitespace + `</?[^>]*>` + whitespace + `|` + whitespace + `&[a-zA-Z0-9#]+;` + whitespace,
)

// MarkupRuns returns the markup substrings of content in order.
func MarkupRuns(content string) []string {
	return markupPattern.FindAllString(content, -1)
}

// Split partitions content into plain segments and the markup runs between
// them. The result always has len(plain) == len(markup)+1; plain segments
// may be empty.
func Split(content string) (plain, markup []string) {
	locs := markupPattern.FindAllStringIndex(content, -1)
	plain = make([]string, 0, len(locs)+1)
	markup = make([]string, 0, len(locs))

	prev := 0
	for _, loc := range locs {
		plain = append(plain, content[prev:loc[0]])
		markup = append(markup, content[loc[0]:loc[1]])
		prev = loc[1]
	}
	plain = append(plain, content[prev:])

	return plain, markup
}

// Join interleaves plain segments with markup runs:
// plain[0] markup[0] plain[1] ... plain[n].
func Join(plain, markup []string) string {
	var n int
	for _, s := range plain {
		n += len(s)
	}
	for _, s := range markup {
		n += len(s)
	}

	buf := make([]byte, 0, n)
	for i, s := range plain {
		buf = append(buf, s...)
		if i < len(markup) {
			buf = append(buf, markup[i]...)
		}
	}
	// Markup beyond the last plain segment is kept rather than dropped.
	for i := len(plain); i < len(markup); i++ {
		buf = append(buf, markup[i]...)
	}
	return string(buf)
}
