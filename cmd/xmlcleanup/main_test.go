package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunSingleFileWritesFormattedOutputToExplicitPath(t *testing.T) {
	// given
	dir := t.TempDir()
	input := writeTempFile(t, dir, "in.xml", "<a>\n  <b></b>\n</a>")
	output := filepath.Join(dir, "out.xml")

	// when
	err := newApp().Run([]string{"xmlcleanup", input, output})

	// then
	require.NoError(t, err)
	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "<a>\r\n\t<b />\r\n</a>", string(got))
}

func TestRunSingleFileFullFormatInsertsBreaks(t *testing.T) {
	// given
	dir := t.TempDir()
	input := writeTempFile(t, dir, "in.xml", "<a><b/></a>")
	output := filepath.Join(dir, "out.xml")

	// when
	err := newApp().Run([]string{"xmlcleanup", "--full-format", input, output})

	// then
	require.NoError(t, err)
	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "<a>\r\n\t<b />\r\n</a>", string(got))
}

func TestRunSingleFileHonorsSpacesFlag(t *testing.T) {
	// given
	dir := t.TempDir()
	input := writeTempFile(t, dir, "in.xml", "<a>\n  <b></b>\n</a>")
	output := filepath.Join(dir, "out.xml")

	// when
	err := newApp().Run([]string{"xmlcleanup", "--spaces=2", input, output})

	// then
	require.NoError(t, err)
	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "<a>\r\n  <b />\r\n</a>", string(got))
}

func TestRunSingleFileNoAutoCloseLeavesEmptyElementAlone(t *testing.T) {
	// given
	dir := t.TempDir()
	input := writeTempFile(t, dir, "in.xml", "<a>\n\t<b></b>\n</a>")
	output := filepath.Join(dir, "out.xml")

	// when
	err := newApp().Run([]string{"xmlcleanup", "--no-auto-close", input, output})

	// then
	require.NoError(t, err)
	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "<a>\r\n\t<b></b>\r\n</a>", string(got))
}

func TestRunSingleFileNoOutputPathPrintsToStdout(t *testing.T) {
	// given
	dir := t.TempDir()
	input := writeTempFile(t, dir, "in.xml", "<a/>")

	r, w, err := os.Pipe()
	require.NoError(t, err)
	origStdout := os.Stdout
	os.Stdout = w

	// when
	runErr := newApp().Run([]string{"xmlcleanup", input})
	require.NoError(t, w.Close())
	os.Stdout = origStdout
	out, readErr := io.ReadAll(r)

	// then
	require.NoError(t, runErr)
	require.NoError(t, readErr)
	assert.Equal(t, "<a />", string(out))
}

func TestRunSingleFileMissingInputReturnsError(t *testing.T) {
	// given
	dir := t.TempDir()
	missing := filepath.Join(dir, "does-not-exist.xml")

	// when
	err := newApp().Run([]string{"xmlcleanup", missing})

	// then
	assert.Error(t, err)
}

func TestRunBulkModeProcessesFilesInPlace(t *testing.T) {
	// given
	dir := t.TempDir()
	writeTempFile(t, dir, "a.xml", "<a/>")
	writeTempFile(t, dir, "sub/b.xml", "<a>\n  <b></b>\n</a>")
	writeTempFile(t, dir, "note.txt", "not xml")

	origWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { require.NoError(t, os.Chdir(origWD)) }()

	// when
	runErr := newApp().Run([]string{"xmlcleanup"})

	// then
	require.NoError(t, runErr)
	a, err := os.ReadFile(filepath.Join(dir, "a.xml"))
	require.NoError(t, err)
	assert.Equal(t, "<a />", string(a))
	b, err := os.ReadFile(filepath.Join(dir, "sub", "b.xml"))
	require.NoError(t, err)
	assert.Equal(t, "<a>\r\n\t<b />\r\n</a>", string(b))
	note, err := os.ReadFile(filepath.Join(dir, "note.txt"))
	require.NoError(t, err)
	assert.Equal(t, "not xml", string(note))
}
