package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/soypat/termsdf/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var tests = []struct {
		f    flags
		want slog.Level
	}{
		{flags{vv: true}, slog.LevelDebug},
		{flags{v: true, q: true}, slog.LevelInfo},
		{flags{q: true}, slog.LevelError},
		{flags{}, slog.LevelWarn},
	}
	for _, test := range tests {
		var buf bytes.Buffer
		log := newLogger(&buf, test.f)
		assert.True(t, log.Enabled(context.Background(), test.want), "%+v", test.f)
		assert.False(t, log.Enabled(context.Background(), test.want-1), "%+v", test.f)
		log.Log(context.Background(), test.want, "frame")
		assert.Contains(t, buf.String(), "msg=frame")
	}
}

func TestSource(t *testing.T) {
	cfg := config.Default()
	src, err := source(&cfg, "")
	require.NoError(t, err)
	assert.NotNil(t, src)
	_, err = source(&cfg, "nope")
	assert.Error(t, err)

	cfg.Objects = []config.Object{{Kind: "sphere", Params: []float32{1}, Color: "#fff"}}
	src, err = source(&cfg, "")
	require.NoError(t, err)
	assert.NotNil(t, src)
}

func TestSize(t *testing.T) {
	cols, rows := size(config.Render{Width: 30, Height: 10})
	assert.Equal(t, 30, cols)
	assert.Equal(t, 10, rows)
	t.Setenv("COLUMNS", "50")
	t.Setenv("LINES", "20")
	cols, rows = size(config.Render{Height: 7})
	assert.Positive(t, cols)
	assert.Equal(t, 7, rows)
}
