package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/gobarber/internal/logging"
	"github.com/aretw0/gobarber/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	now := time.Date(2026, 3, 10, 22, 30, 0, 0, loc)

	day, err := ParseDay("", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, loc), day)

	day, err = ParseDay("2026-12-01", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, loc), day)

	_, err = ParseDay("01/12/2026", now)
	assert.ErrorContains(t, err, "YYYY-MM-DD")
}

func TestReadPassword_NonTerminal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Newline", "secret\n", "secret"},
		{"CRLF", "secret\r\n", "secret"},
		{"No Trailing Newline", "secret", "secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := readPassword(strings.NewReader(tt.input), &out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Password: ", out.String())
		})
	}

	t.Run("Empty Input", func(t *testing.T) {
		_, err := readPassword(strings.NewReader(""), &bytes.Buffer{})
		assert.Error(t, err)
	})
}

func TestCreateDebugHooks(t *testing.T) {
	var buf bytes.Buffer
	hooks := createDebugHooks(logging.NewJSON(&buf, slog.LevelDebug))

	hooks.OnSignedIn(context.Background(), &domain.SessionEvent{State: domain.StateAuthenticated, UserID: "u1"})
	hooks.OnSignInError(context.Background(), &domain.SessionEvent{State: domain.StateUnauthenticated, Err: errors.New("offline")})

	logs := buf.String()
	assert.Contains(t, logs, `"msg":"Signed In"`)
	assert.Contains(t, logs, `"user_id":"u1"`)
	assert.Contains(t, logs, `"err":"offline"`)
}

func TestHandleExecutionError(t *testing.T) {
	assert.NoError(t, handleExecutionError(nil))
	assert.NoError(t, handleExecutionError(fmt.Errorf("watch: %w", context.Canceled)))
	assert.NoError(t, handleExecutionError(&InterruptError{Signal: os.Interrupt}))
	assert.Error(t, handleExecutionError(errors.New("boom")))
}

func TestWithInterrupt_StopIsNotAnInterrupt(t *testing.T) {
	ctx, stop := WithInterrupt(context.Background())
	stop()

	<-ctx.Done()
	assert.ErrorIs(t, context.Cause(ctx), context.Canceled)
	_, ok := Interrupt(ctx)
	assert.False(t, ok)

	parent, cancel := context.WithCancel(context.Background())
	ctx, stop = WithInterrupt(parent)
	defer stop()
	cancel()

	<-ctx.Done()
	_, ok = Interrupt(ctx)
	assert.False(t, ok)
}

func TestPrintSystemMessage(t *testing.T) {
	var buf bytes.Buffer
	printSystemMessage(&buf, "Signed in as %s", "Alice")
	assert.Equal(t, ">>> Signed in as Alice\n", buf.String())
}
