package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"watchlist/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLevelAndFormat(t *testing.T) {
	Init(config.LogConfig{Level: "debug", Format: "json", File: filepath.Join(t.TempDir(), "app.log"), MaxSizeMB: 1})
	assert.Equal(t, logrus.DebugLevel, Logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, Logger.Formatter)

	Init(config.LogConfig{Level: "nonsense"})
	assert.Equal(t, logrus.InfoLevel, Logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, Logger.Formatter)
}

func TestWithContextFields(t *testing.T) {
	Init(config.LogConfig{Level: "info", Format: "json"})
	var buf bytes.Buffer
	Logger.SetOutput(&buf)

	WithContext("favorites", "create").Info("saved")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "favorites", line["component"])
	assert.Equal(t, "create", line["operation"])
	assert.Equal(t, "saved", line["msg"])
}
