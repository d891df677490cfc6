package logger_test

import (
	"context"
	"testing"

	"github.com/jonesrussell/cardfeed/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_SetDefaults(t *testing.T) {
	cfg := logger.Config{}
	cfg.SetDefaults()

	assert.Equal(t, logger.DefaultLevel, cfg.Level)
	assert.Equal(t, logger.FormatConsole, cfg.Format)
	assert.Equal(t, []string{"stdout"}, cfg.OutputPaths)
}

func TestNew_BuildsJSONAndConsole(t *testing.T) {
	for _, format := range []string{logger.FormatJSON, logger.FormatConsole} {
		l, err := logger.New(logger.Config{Level: "debug", Format: format, OutputPaths: []string{"stderr"}})
		require.NoError(t, err)
		require.NotNil(t, l)
		l.With(logger.String("format", format)).Debug("built")
	}
}

func TestFromContext(t *testing.T) {
	nop := logger.NewNop()
	ctx := logger.WithContext(context.Background(), nop)

	assert.Same(t, nop, logger.FromContext(ctx))
	assert.NotNil(t, logger.FromContext(context.Background()))
}
