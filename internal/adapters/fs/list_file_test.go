package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/fqdnledger/internal/domain"
)

func TestListFile_ReadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blacklist.txt")
	content := "# Blacklist retrieved on 2024-03-01 10:00:00\nexample.com\r\n\nfoo.co"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	lines, err := NewListFile(path).ReadLines(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"# Blacklist retrieved on 2024-03-01 10:00:00",
		"example.com",
		"",
		"foo.co",
	}, lines)
}

func TestListFile_Missing(t *testing.T) {
	_, err := NewListFile(filepath.Join(t.TempDir(), "nope.txt")).ReadLines(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInputMissing)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestListFile_OversizedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blacklist.txt")
	long := strings.Repeat("a", 2<<20)
	require.NoError(t, os.WriteFile(path, []byte("example.com\n"+long+"\nfoo.co\n"), 0o644))

	lines, err := NewListFile(path).ReadLines(context.Background())
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, "example.com", lines[0])
	assert.Len(t, lines[1], 2<<20)
	assert.Equal(t, "foo.co", lines[2])
}

func TestListFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blacklist.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	lines, err := NewListFile(path).ReadLines(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lines)
}
