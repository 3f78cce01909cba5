package parser

import (
	"fmt"

	"swf-translator/internal/script"

	"github.com/rs/zerolog/log"
)

// ActionScriptParser extracts display text from string literals in scripts
// exported by the JPEXS decompiler in "ActionScript" format.
type ActionScriptParser struct {
	scanner *script.Scanner
}

// NewActionScriptParser creates a parser using the given inclusion mode.
// Gather and export must use the same mode.
func NewActionScriptParser(mode script.Mode) *ActionScriptParser {
	return &ActionScriptParser{scanner: script.NewScanner(mode)}
}

func (p *ActionScriptParser) CanParse(ext string) bool {
	return ext == ".as"
}

func (p *ActionScriptParser) Mode() script.Mode {
	return p.scanner.Policy().Mode
}

func (p *ActionScriptParser) Parse(filePath string) (*ParseResult, error) {
	src, err := readSource(filePath)
	if err != nil {
		return nil, err
	}
	return p.ParseSource(filePath, src), nil
}

// ParseSource parses already loaded script source.
func (p *ActionScriptParser) ParseSource(filePath, src string) *ParseResult {
	if err := p.scanner.Check(src); err != nil {
		log.Warn().Err(err).Str("file", filePath).Msg("Unterminated string literal left untouched")
	}

	return &ParseResult{
		FilePath: filePath,
		FileType: "actionscript",
		Texts:    p.scanner.Extract(src),
		Source:   src,
	}
}

func (p *ActionScriptParser) Reconstruct(result *ParseResult, translations []string) ([]byte, error) {
	out, err := p.scanner.Substitute(result.Source, translations)
	if err != nil {
		return nil, fmt.Errorf("substitute strings in %s: %w", result.FilePath, err)
	}
	return []byte(out), nil
}
