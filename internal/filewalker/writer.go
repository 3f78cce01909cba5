package filewalker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputPath maps path under inputRoot to the same relative location under
// outputRoot. An empty outputRoot means the file is rewritten in place.
func OutputPath(inputRoot, outputRoot, path string) (string, error) {
	if outputRoot == "" {
		return path, nil
	}

	inputAbs, err := filepath.Abs(inputRoot)
	if err != nil {
		return "", fmt.Errorf("resolve input root: %w", err)
	}
	outputAbs, err := filepath.Abs(outputRoot)
	if err != nil {
		return "", fmt.Errorf("resolve output root: %w", err)
	}

	rel, err := filepath.Rel(inputAbs, path)
	if err != nil {
		return "", fmt.Errorf("compute relative path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %s is outside %s", path, inputAbs)
	}

	return filepath.Join(outputAbs, rel), nil
}

// WriteAtomic writes data to a temp file next to dest and renames it over
// dest, so a failed write never leaves a partially rewritten file.
func WriteAtomic(dest string, data []byte) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	perm := os.FileMode(0o644)
	if info, err := os.Stat(dest); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	_ = os.Chmod(tmpPath, perm)

	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", dest, err)
	}
	return nil
}
