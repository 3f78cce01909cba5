package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorpus_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)

	c := FromStrings([]string{"に", "いち", "いち"})
	c.Set("<b>", "<b>")
	require.Equal(t, 3, c.Len())
	require.NoError(t, c.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"orig": "<b>"`)
	assert.Contains(t, string(data), "\n  \"strings\": [\n")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"<b>", "いち", "に"}, loaded.Originals())

	tran, ok := loaded.Get("いち")
	require.True(t, ok)
	assert.Equal(t, "いち", tran)

	_, ok = loaded.Get("missing")
	assert.False(t, ok)
}

func TestCorpus_Pairs(t *testing.T) {
	c := New()
	c.Set("b", "B")
	c.Set("a", "A")
	assert.Equal(t, []Pair{{Orig: "a", Tran: "A"}, {Orig: "b", Tran: "B"}}, c.Pairs())
}

func TestCorpus_UnmarshalDuplicates(t *testing.T) {
	c := New()
	err := c.UnmarshalJSON([]byte(`{"strings":[{"orig":"x","tran":"1"},{"orig":"x","tran":"2"}]}`))
	require.NoError(t, err)
	v, _ := c.Get("x")
	assert.Equal(t, "2", v)
}

func TestLoadOrNew(t *testing.T) {
	c, err := LoadOrNew(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = LoadOrNew(bad)
	assert.Error(t, err)
}
