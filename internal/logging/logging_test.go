// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		level, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.expected, level)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "warn", Format: FormatJSON, Writer: &buf})
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("query failed", slog.String("op", "MPE"))

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "query failed", record["msg"])
	assert.Equal(t, "MPE", record["op"])

	buf.Reset()
	logger, err = New(Config{Writer: &buf})
	require.NoError(t, err)
	logger.Info("eliminate", "var", "X")
	assert.Contains(t, buf.String(), "msg=eliminate var=X")

	_, err = New(Config{Format: "xml"})
	assert.Error(t, err)
	_, err = New(Config{Level: "loud"})
	assert.Error(t, err)
}
