package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/user-microservices/internal/logger"
)

func TestConfigure_JSONCarriesServiceField(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	logger.Configure(&buf, "user-service", "debug", "json")

	log.Info().Str("user_id", "1").Msg("user saved")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "user-service", entry["service"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "user saved", entry["message"])
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestConfigure_UnknownLevelFallsBackToInfo(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	logger.Configure(&buf, "test-service", "loud", "json")

	log.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestConfigure_ConsoleFormat(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	logger.Configure(&buf, "test-service", "info", "console")

	log.Info().Msg("Starting HTTP server")
	assert.Contains(t, buf.String(), "Starting HTTP server")
	assert.Contains(t, buf.String(), "test-service")
}
