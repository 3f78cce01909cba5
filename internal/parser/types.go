package parser

import (
	"fmt"
	"os"
)

// ParseResult holds parsing output for a single asset file.
type ParseResult struct {
	// FilePath is the path the file was read from.
	FilePath string
	// FileType is the detected type (actionscript, text).
	FileType string
	// Texts are the extracted strings, in file order. Reconstruct expects
	// a translation for each of them at the same position.
	Texts []string
	// Source is the original file content, kept for reconstruction.
	Source string
}

// Parser is the interface for all asset file parsers.
type Parser interface {
	// CanParse returns true if this parser handles the given file extension.
	CanParse(ext string) bool
	// Parse extracts translatable strings from a file.
	Parse(filePath string) (*ParseResult, error)
	// Reconstruct rebuilds the file with translations given positionally,
	// one per entry of result.Texts.
	Reconstruct(result *ParseResult, translations []string) ([]byte, error)
}

func readSource(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filePath, err)
	}
	return string(data), nil
}
