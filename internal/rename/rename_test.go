package rename

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTracker(t *testing.T) {
	tracker := NewTracker()

	renamed, ok := tracker.Track("rock01")
	require.False(t, ok)
	require.Equal(t, "", renamed)

	renamed, ok = tracker.Track("grass")
	require.False(t, ok)
	require.Equal(t, "", renamed)

	renamed, ok = tracker.Track("rock01")
	require.True(t, ok)
	require.Equal(t, "rock01-1", renamed)

	renamed, ok = tracker.Track("rock01")
	require.True(t, ok)
	require.Equal(t, "rock01-2", renamed)
}
