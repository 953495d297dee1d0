//go:build unix

package cli

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyCause_RecordsSignal(t *testing.T) {
	ctx, stop := notifyCause(context.Background(), syscall.SIGUSR1)
	defer stop()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGUSR1))

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context not cancelled by signal")
	}
	sig, ok := Interrupt(ctx)
	require.True(t, ok)
	assert.Equal(t, syscall.SIGUSR1, sig)
	assert.True(t, isInterrupted(context.Cause(ctx)))
}
