package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simple_server/internal/shared/types"
)

func TestInitRejectsUnknownOutput(t *testing.T) {
	assert.Error(t, Init(types.LogConf{Level: "info", Output: "syslog"}))
}

func TestInitUnknownLevelFallsBackToInfo(t *testing.T) {
	saved := log.Logger
	t.Cleanup(func() { log.Logger = saved })

	require.NoError(t, Init(types.LogConf{Level: "loud", Output: "stderr"}))
	assert.Equal(t, zerolog.InfoLevel, log.Logger.GetLevel())
}

func TestWithComponent(t *testing.T) {
	saved := log.Logger
	t.Cleanup(func() { log.Logger = saved })

	var buf bytes.Buffer
	log.Logger = New(&buf, zerolog.InfoLevel)
	l := WithComponent("server")
	l.Info().Msg("server listening on port 8080")
	l.Debug().Msg("hidden")

	assert.Contains(t, buf.String(), "server listening on port 8080")
	assert.Contains(t, buf.String(), "component=server")
	assert.NotContains(t, buf.String(), "hidden")
}
