package orders

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextTokenEmptyHistory(t *testing.T) {
	tok, err := NextToken("", false)
	require.NoError(t, err)
	require.Equal(t, "T1001", tok)
}

func TestNextTokenIncrements(t *testing.T) {
	tests := []struct {
		last string
		want string
	}{
		{"T1001", "T1002"},
		{"T1005", "T1006"},
		{"T9999", "T10000"},
	}
	for _, tt := range tests {
		t.Run(tt.last, func(t *testing.T) {
			tok, err := NextToken(tt.last, true)
			require.NoError(t, err)
			require.Equal(t, tt.want, tok)
		})
	}
}

func TestNextTokenMalformed(t *testing.T) {
	for _, last := range []string{"", "1005", "Txx", "T", "X1005", "T10a5", "t1005"} {
		t.Run(last, func(t *testing.T) {
			_, err := NextToken(last, true)
			require.ErrorIs(t, err, ErrMalformedSequence)
		})
	}
}
