package parser

import (
	"fmt"
	"strings"

	"swf-translator/internal/script"
)

// RecordSeparator splits records in texts exported by JPEXS as "Plain Text".
const RecordSeparator = "\n--- RECORDSEPARATOR ---\n"

// crlfRecordSeparator is the same separator in a file with CRLF line endings.
const crlfRecordSeparator = "\r\n--- RECORDSEPARATOR ---\r\n"

// TextParser handles static text records. Every record is one string,
// including empty ones.
type TextParser struct{}

func NewTextParser() *TextParser { return &TextParser{} }

func (p *TextParser) CanParse(ext string) bool {
	return ext == ".txt"
}

func (p *TextParser) Parse(filePath string) (*ParseResult, error) {
	src, err := readSource(filePath)
	if err != nil {
		return nil, err
	}
	return p.ParseSource(filePath, src), nil
}

// ParseSource parses already loaded text records.
func (p *TextParser) ParseSource(filePath, src string) *ParseResult {
	return &ParseResult{
		FilePath: filePath,
		FileType: "text",
		Texts:    strings.Split(src, separatorFor(src)),
		Source:   src,
	}
}

func (p *TextParser) Reconstruct(result *ParseResult, translations []string) ([]byte, error) {
	if len(translations) != len(result.Texts) {
		return nil, fmt.Errorf("join records in %s: %w", result.FilePath,
			&script.SegmentCountError{Want: len(result.Texts), Got: len(translations)})
	}
	return []byte(strings.Join(translations, separatorFor(result.Source))), nil
}

func separatorFor(src string) string {
	if strings.Contains(src, crlfRecordSeparator) {
		return crlfRecordSeparator
	}
	return RecordSeparator
}
