package filewalker

import (
	"os"
	"path/filepath"
	"testing"

	"swf-translator/internal/parser"
	"swf-translator/internal/script"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestWalker_Walk(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "texts", "2.txt"), "に")
	writeFile(t, filepath.Join(root, "texts", "1.txt"), "いち")
	writeFile(t, filepath.Join(root, "scripts", "scenes", "Intro.as"), `x = "はい。"`)
	writeFile(t, filepath.Join(root, "scripts", "Main.AS"), `y = "いいえ。"`)
	writeFile(t, filepath.Join(root, "images", "1.png"), "png")

	w := NewWalker(script.ModeHeuristic)
	entries, err := w.Walk(root)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	var rel []string
	for _, e := range entries {
		r, err := filepath.Rel(root, e.Path)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{"scripts/Main.AS", "scripts/scenes/Intro.as", "texts/1.txt", "texts/2.txt"}, rel)

	assert.IsType(t, &parser.ActionScriptParser{}, entries[0].Parser)
	assert.Equal(t, ".as", entries[0].Ext)
	assert.IsType(t, &parser.TextParser{}, entries[2].Parser)

	res, err := w.ParseFile(entries[1])
	require.NoError(t, err)
	assert.Equal(t, []string{"はい。"}, res.Texts)
}

func TestWalker_WalkErrors(t *testing.T) {
	w := NewWalker(script.ModeStrict)

	_, err := w.Walk(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "a.txt")
	writeFile(t, file, "x")
	_, err = w.Walk(file)
	assert.Error(t, err)
}

func TestOutputPath(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	path := filepath.Join(in, "scripts", "A.as")

	same, err := OutputPath(in, "", path)
	require.NoError(t, err)
	assert.Equal(t, path, same)

	mapped, err := OutputPath(in, out, path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "scripts", "A.as"), mapped)

	_, err = OutputPath(in, out, filepath.Join(filepath.Dir(in), "elsewhere.as"))
	assert.Error(t, err)
}

func TestWriteAtomic(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "nested", "A.as")

	require.NoError(t, WriteAtomic(dest, []byte("first")))
	require.NoError(t, WriteAtomic(dest, []byte("second")))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(dest), ".tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}
