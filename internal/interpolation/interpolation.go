package interpolation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Mapping stores the original variable and its placeholder.
type Mapping struct {
	Original    string
	Placeholder string
	Index       int
}

type span struct {
	start, end int
}

// patterns detect variables substituted into game text at runtime.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\{[a-zA-Z_][a-zA-Z0-9_]*\}`),         // ${name}
	regexp.MustCompile(`\{[0-9]+\}`),                           // {0}
	regexp.MustCompile(`%[0-9]+\$?[sd]?`),                      // %1, %1$s
	regexp.MustCompile(`%[-+0-9]*\.?[0-9]*[dsfieEgGxXoubcpq]`), // %d, %s, %.2f
	regexp.MustCompile(`%%`),                                   // literal percent
}

// Protect replaces interpolation variables with {{var_N}} placeholders so
// a translator leaves them alone. The mappings restore them afterwards.
func Protect(text string) (string, []Mapping) {
	var spans []span
	for _, p := range patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			spans = append(spans, span{start: loc[0], end: loc[1]})
		}
	}
	if len(spans) == 0 {
		return text, nil
	}

	// Earliest first; the longest wins among spans starting together.
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})

	var sb strings.Builder
	var mappings []Mapping
	prev := 0
	for _, s := range spans {
		if s.start < prev {
			continue
		}
		m := Mapping{
			Original:    text[s.start:s.end],
			Placeholder: fmt.Sprintf("{{var_%d}}", len(mappings)+1),
			Index:       len(mappings) + 1,
		}
		mappings = append(mappings, m)
		sb.WriteString(text[prev:s.start])
		sb.WriteString(m.Placeholder)
		prev = s.end
	}
	sb.WriteString(text[prev:])

	return sb.String(), mappings
}

// Restore puts the original variables back in place of their placeholders.
func Restore(translated string, mappings []Mapping) string {
	result := translated
	for _, m := range mappings {
		result = strings.Replace(result, m.Placeholder, m.Original, 1)
	}
	return result
}
