package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taiwoajasa245/quran-reader-api/internal/quran/qurantest"
)

type cli struct {
	t     *testing.T
	api   string
	state string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	t.Setenv("STATE_BACKEND", "memory")
	t.Setenv("DEFAULT_TRANSLATION", "en.sahih")

	srv := qurantest.NewServer()
	t.Cleanup(srv.Close)
	return &cli{t: t, api: srv.URL, state: filepath.Join(t.TempDir(), "state.json")}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--api", c.api, "--state", c.state}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestReadRecordsProgress(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("resume")
	require.NoError(t, err)
	assert.Contains(t, out, "No reading session yet.")

	out, err = c.run("read", "2", "--page", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "2. Al-Baqara (The Cow)  page 2/3")
	assert.NotContains(t, out, qurantest.Formula)
	assert.Contains(t, out, "Translation 2:32")

	out, err = c.run("recent")
	require.NoError(t, err)
	assert.Contains(t, out, "Al-Baqara (The Cow)")

	out, err = c.run("resume", "--translation", "")
	require.NoError(t, err)
	assert.Contains(t, out, "page 2/3")
	assert.NotContains(t, out, "Translation 2:")
}

func TestOpeningFormulaHeading(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("read", "2", "-t", "")
	require.NoError(t, err)
	assert.Contains(t, out, qurantest.Formula)

	out, err = c.run("read", "9", "-t", "")
	require.NoError(t, err)
	assert.NotContains(t, out, qurantest.Formula)
	assert.Contains(t, out, "[1] ")
}

func TestBookmarkCommands(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("bookmark", "add", "2", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Bookmarked Al-Baqara 2:5")

	out, err = c.run("bookmark", "add", "2", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "already bookmarked")

	out, err = c.run("bookmark", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "Al-Baqara 2:5")

	out, err = c.run("read", "2", "-t", "")
	require.NoError(t, err)
	assert.Contains(t, out, "*[5] ")

	_, err = c.run("bookmark", "rm", "2", "5")
	require.NoError(t, err)

	out, err = c.run("bookmark", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "No bookmarks yet.")

	_, err = c.run("bookmark", "add", "2", "999")
	assert.Error(t, err)
}

func TestLookupCommands(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("chapters", "ikh")
	require.NoError(t, err)
	assert.Contains(t, out, "Al-Ikhlaas")
	assert.NotContains(t, out, "Al-Baqara")

	out, err = c.run("search", "mercy")
	require.NoError(t, err)
	assert.Contains(t, out, "2 matches")

	out, err = c.run("section", "1", "-p", "3", "-t", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Juz 1  page 3/3")

	out, err = c.run("page-for", "31")
	require.NoError(t, err)
	assert.Contains(t, out, "Verse 31 is on page 2")
}

func TestBadArguments(t *testing.T) {
	c := newCLI(t)

	for _, args := range [][]string{
		{"read", "200"},
		{"read", "2", "--page", "9"},
		{"bookmark", "add", "x", "1"},
		{"page-for", "0"},
	} {
		_, err := c.run(args...)
		assert.Error(t, err, args)
	}
}
