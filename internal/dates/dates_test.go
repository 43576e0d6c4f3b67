package dates

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizer_Format(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected string
	}{
		{"01/25/1979", "1979/01/25"},
		{"1/25/2014", "2014/01/25"},
		{"2013/01/01", "2013/01/01"},
		{"2013/12/31", "2013/12/31"},
		{"2014/3/5", "2014/03/05"},
		{" 2014/3/5 ", "2014/03/05"},
	}

	n := New()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := n.Format(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalizer_Normalize(t *testing.T) {
	t.Parallel()
	got, err := New().Normalize("01/25/1979")
	require.NoError(t, err)
	assert.Equal(t, time.Date(1979, time.January, 25, 0, 0, 0, 0, time.UTC), got)
}

func TestNormalizer_Unrecognized(t *testing.T) {
	t.Parallel()
	for _, input := range []string{"", "   ", "99/99/9999", "2014/13/45"} {
		_, err := New().Format(input)
		require.Error(t, err, input)
		assert.True(t, errors.Is(err, ErrUnrecognized), input)

		var perr *ParseError
		require.True(t, errors.As(err, &perr), input)
		assert.Equal(t, input, perr.Text)
		assert.Contains(t, err.Error(), "unrecognized date")
	}
}
