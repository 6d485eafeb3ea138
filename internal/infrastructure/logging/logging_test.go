package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/searoutes-go/internal/application/common"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/config"
)

func TestContextLogger_MapsLevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewContextLogger(zerolog.New(&buf))

	l.Log(common.LevelWarn, "low fuel", map[string]interface{}{"vessel_id": "v-1", "fuel": 3})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "low fuel", entry["message"])
	assert.Equal(t, "v-1", entry["vessel_id"])
	assert.EqualValues(t, 3, entry["fuel"])
}

func TestContextLogger_DebugFilteredByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewContextLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))

	l.Log(common.LevelDebug, "noise", nil)
	assert.Empty(t, buf.String())
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "server.log")
	logger, closer, err := New(config.LoggingConfig{Level: "debug", Format: "json", Output: "file", FilePath: path})
	require.NoError(t, err)

	logger.Info().Msg("started")
	require.NoError(t, closer.Close())
	assert.FileExists(t, path)
}
