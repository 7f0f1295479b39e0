package main

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalCancelContext_CauseNamesSignal(t *testing.T) {
	ctx, cleanup := signalCancelContext()
	defer cleanup()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGTERM))
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context not cancelled by SIGTERM")
	}
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.Equal(t, "decomment: interrupted by terminated", context.Cause(ctx).Error())
}

func TestSignalCancelContext_CleanupCancelsWithoutCause(t *testing.T) {
	ctx, cleanup := signalCancelContext()
	cleanup()
	<-ctx.Done()
	assert.ErrorIs(t, context.Cause(ctx), context.Canceled)
}
