package readingstate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileKV(t *testing.T) {
	ctx := context.Background()

	t.Run("survives reopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "state.json")

		kv, err := OpenFileKV(path)
		require.NoError(t, err)
		s := NewStore(kv, "", nil)
		_, err = s.AddBookmark(ctx, Bookmark{ChapterNumber: 2, VerseNumber: 255})
		require.NoError(t, err)
		require.NoError(t, s.SetLastRead(ctx, LastRead{ChapterNumber: 2, ChapterName: "Al-Baqara", Page: 9}))

		reopened, err := OpenFileKV(path)
		require.NoError(t, err)
		s = NewStore(reopened, "", nil)

		assert.True(t, s.IsBookmarked(ctx, 2, 255))
		got, ok := s.LastRead(ctx)
		require.True(t, ok)
		assert.Equal(t, 9, got.Page)
	})

	t.Run("missing key", func(t *testing.T) {
		kv, err := OpenFileKV(filepath.Join(t.TempDir(), "state.json"))
		require.NoError(t, err)

		_, err = kv.Get(ctx, "nope")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("corrupt file starts empty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		require.NoError(t, os.WriteFile(path, []byte("<<<"), 0o644))

		kv, err := OpenFileKV(path)
		require.NoError(t, err)
		assert.Empty(t, NewStore(kv, "", nil).Bookmarks(ctx))

		require.NoError(t, kv.Set(ctx, "k", "v"))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.JSONEq(t, `{"k":"v"}`, string(data))
	})
}
