package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrievedAt(t *testing.T) {
	got, ok := RetrievedAt("# Blacklist retrieved on 2024-03-01 10:00:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local), got)

	for _, line := range []string{"", "example.com", "# some comment", "# Blacklist retrieved on yesterday"} {
		_, ok := RetrievedAt(line)
		assert.False(t, ok, line)
	}
}
