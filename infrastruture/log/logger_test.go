package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	t.Run("prefixes level and component", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New("APP", "", &buf)
		require.NoError(t, err)

		l.Info("ready")
		l.Warning("slow")
		l.Error("boom")

		out := buf.String()
		assert.Contains(t, out, "[APP]")
		assert.Contains(t, out, "[INFO]\033[0m ready")
		assert.Contains(t, out, "[WARNING]\033[0m slow")
		assert.Contains(t, out, "[ERROR]\033[0m boom")
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := New("", "", &bytes.Buffer{})
		assert.ErrorIs(t, err, ErrEmptyPrefix)
	})
}
