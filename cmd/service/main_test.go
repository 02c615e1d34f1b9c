package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/go-locals/internal/app"
	"github.com/jsamuelsen/go-locals/internal/platform/config"
)

func TestNewScope_GoroutineIdentity(t *testing.T) {
	scope, err := newScope(config.LocalsConfig{Identity: config.IdentityGoroutine})
	require.NoError(t, err)
	require.NotNil(t, scope)
	defer scope.Release()

	// The binding must survive across separate accesses on the same goroutine.
	scope.Bind(app.RequestInfo{RequestID: "req-1"})

	info, err := scope.CurrentInfo()
	require.NoError(t, err)
	assert.Equal(t, "req-1", info.RequestID)
}

func TestNewScope_SequenceIdentityRejected(t *testing.T) {
	scope, err := newScope(config.LocalsConfig{Identity: config.IdentitySequence})
	require.Error(t, err)
	assert.Nil(t, scope)
	assert.Contains(t, err.Error(), "cannot serve the HTTP pipeline")
}

func TestNewScope_UnknownIdentity(t *testing.T) {
	scope, err := newScope(config.LocalsConfig{Identity: "thread"})
	require.Error(t, err)
	assert.Nil(t, scope)
	assert.Contains(t, err.Error(), "unknown identity provider")
}
