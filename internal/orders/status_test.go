package orders

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	legal := []struct{ from, to Status }{
		{StatusPending, StatusPreparing},
		{StatusPreparing, StatusReady},
		{StatusReady, StatusCompleted},
	}
	for _, tt := range legal {
		require.True(t, CanTransition(tt.from, tt.to), "%s -> %s should be legal", tt.from, tt.to)
	}

	illegal := []struct{ from, to Status }{
		{StatusPending, StatusReady},
		{StatusPending, StatusCompleted},
		{StatusPending, StatusPending},
		{StatusPreparing, StatusPending},
		{StatusReady, StatusPreparing},
		{StatusCompleted, StatusPending},
		{StatusCompleted, StatusCompleted},
	}
	for _, tt := range illegal {
		require.False(t, CanTransition(tt.from, tt.to), "%s -> %s should be rejected", tt.from, tt.to)
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "preparing", "ready", "completed"} {
		st, ok := ParseStatus(s)
		require.True(t, ok)
		require.Equal(t, Status(s), st)
	}
	for _, s := range []string{"", "Pending", "done", "cancelled"} {
		_, ok := ParseStatus(s)
		require.False(t, ok)
	}
}
