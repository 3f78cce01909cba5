package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsJapanese(t *testing.T) {
	assert.True(t, ContainsJapanese("abc いち"))
	assert.True(t, ContainsJapanese("カタカナ"))
	assert.True(t, ContainsJapanese("漢字"))
	assert.False(t, ContainsJapanese("plain ascii"))
	assert.False(t, ContainsJapanese(""))
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank(" \t\n　"))
	assert.False(t, IsBlank(" a "))
}

func TestHash(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Hash(""))
	assert.Len(t, Hash("いち"), 64)
	assert.NotEqual(t, Hash("a"), Hash("b"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "いちに...", Truncate("いちにさん", 3))
}

func TestCharCount(t *testing.T) {
	assert.Equal(t, 5, CharCount([]string{"いち", "abc"}))
	assert.Equal(t, 0, CharCount(nil))
}
