package source_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jonesrussell/cardfeed/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyHTTPStatus(t *testing.T) {
	tests := []struct {
		status    int
		want      source.ErrorType
		transient bool
	}{
		{429, source.ErrTypeRateLimited, false},
		{403, source.ErrTypeForbidden, false},
		{404, source.ErrTypeNotFound, false},
		{410, source.ErrTypeNotFound, false},
		{502, source.ErrTypeUpstream, true},
		{302, source.ErrTypeUnexpected, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := source.ClassifyHTTPStatus(tt.status, "https://ex.com/feed")
			assert.Equal(t, tt.want, err.Type)
			assert.Equal(t, tt.transient, err.Transient())
			assert.Contains(t, err.Error(), "https://ex.com/feed")
		})
	}
}

func TestClassifyNetworkError(t *testing.T) {
	timeout := source.ClassifyNetworkError(fmt.Errorf("get: %w", context.DeadlineExceeded), "u")
	assert.Equal(t, source.ErrTypeTimeout, timeout.Type)
	assert.True(t, timeout.Transient())

	refused := source.ClassifyNetworkError(errors.New("connection refused"), "u")
	assert.Equal(t, source.ErrTypeNetwork, refused.Type)
	assert.True(t, source.IsTransient(fmt.Errorf("wrapped: %w", refused)))
}

func TestErrors_FlattensJoined(t *testing.T) {
	a, b := errors.New("a"), errors.New("b")

	assert.Nil(t, source.Errors(nil))
	assert.Equal(t, []error{a}, source.Errors(a))

	parts := source.Errors(errors.Join(a, b))
	require.Len(t, parts, 2)
	assert.ErrorIs(t, parts[1], b)
}
