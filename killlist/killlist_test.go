package killlist_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indexlab/liveness/internal/zio"
	"github.com/indexlab/liveness/killlist"
	"github.com/indexlab/liveness/model"
)

func TestParse(t *testing.T) {
	input := strings.Join([]string{
		"# killed by reindex job 2024-03-01",
		"",
		"42",
		"  7  ",
		"42",
		"1000000",
		"",
	}, "\n")

	list, err := killlist.Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []model.DocumentID{42, 7, 1000000}, list.Docs)
	assert.Equal(t, 3, list.Len())
	assert.Empty(t, list.Malformed)
}

func TestParseMalformed(t *testing.T) {
	input := strings.Join([]string{
		"10",
		"not-a-number",
		"-5",
		"12.5",
		"18446744073709551616", // 2^64, overflows uint64
		"11",
	}, "\n")

	list, err := killlist.Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []model.DocumentID{10, 11}, list.Docs)

	require.Len(t, list.Malformed, 4)
	assert.Equal(t, killlist.Malformed{Line: 2, Text: "not-a-number"}, list.Malformed[0])
	assert.Equal(t, killlist.Malformed{Line: 3, Text: "-5"}, list.Malformed[1])
	assert.Equal(t, killlist.Malformed{Line: 4, Text: "12.5"}, list.Malformed[2])
	assert.Equal(t, killlist.Malformed{Line: 5, Text: "18446744073709551616"}, list.Malformed[3])

	assert.Equal(t, `line 3: "-5"`, list.Malformed[1].String())
}

func TestParseEmpty(t *testing.T) {
	list, err := killlist.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, list.Docs)
	assert.Empty(t, list.Malformed)
}

func TestParseCommentsOnly(t *testing.T) {
	list, err := killlist.Parse(strings.NewReader("# one\n# two\n\n"))
	require.NoError(t, err)
	assert.Empty(t, list.Docs)
	assert.Empty(t, list.Malformed)
}

func TestParseNoTrailingNewline(t *testing.T) {
	list, err := killlist.Parse(strings.NewReader("5\n6"))
	require.NoError(t, err)
	assert.Equal(t, []model.DocumentID{5, 6}, list.Docs)
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "killed.txt")
	require.NoError(t, os.WriteFile(path, []byte("3\n1\n2\n"), 0o600))

	list, err := killlist.Open(path)
	require.NoError(t, err)
	assert.Equal(t, []model.DocumentID{3, 1, 2}, list.Docs)
}

func TestOpenCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "killed.txt.zst")

	w, err := zio.Create(path)
	require.NoError(t, err)
	_, err = w.Write([]byte("# compressed\n99\n100\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	list, err := killlist.Open(path)
	require.NoError(t, err)
	assert.Equal(t, []model.DocumentID{99, 100}, list.Docs)
}

func TestOpenMissing(t *testing.T) {
	_, err := killlist.Open(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}
