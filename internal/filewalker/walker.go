package filewalker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"swf-translator/internal/parser"
	"swf-translator/internal/script"

	"github.com/rs/zerolog/log"
)

// SupportedExtensions lists asset file types exported by JPEXS that the
// tool handles: plain text records and ActionScript sources.
var SupportedExtensions = map[string]bool{
	".txt": true,
	".as":  true,
}

// Walker traverses an export directory and dispatches files to the correct parser.
type Walker struct {
	parsers []parser.Parser
}

// NewWalker creates a Walker with the default parsers. mode is the
// ActionScript inclusion mode.
func NewWalker(mode script.Mode) *Walker {
	return &Walker{
		parsers: []parser.Parser{
			parser.NewTextParser(),
			parser.NewActionScriptParser(mode),
		},
	}
}

// FileEntry represents a discovered file ready for processing.
type FileEntry struct {
	Path   string
	Ext    string
	Parser parser.Parser
}

// Walk discovers all supported files under root in lexical order, which
// keeps per-file string order stable between runs.
func (w *Walker) Walk(root string) ([]FileEntry, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	var entries []FileEntry

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !SupportedExtensions[ext] {
			return nil
		}

		for _, p := range w.parsers {
			if p.CanParse(ext) {
				entries = append(entries, FileEntry{
					Path:   path,
					Ext:    ext,
					Parser: p,
				})
				break
			}
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	log.Info().Int("count", len(entries)).Str("root", root).Msg("Discovered files")
	return entries, nil
}

// ParseFile parses a single file using the appropriate parser.
func (w *Walker) ParseFile(entry FileEntry) (*parser.ParseResult, error) {
	return entry.Parser.Parse(entry.Path)
}
