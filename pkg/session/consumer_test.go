package session_test

import (
	"context"
	"testing"

	"github.com/aretw0/gobarber/pkg/domain"
	"github.com/aretw0/gobarber/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumer_ZeroValuePanics(t *testing.T) {
	var c session.Consumer
	assert.PanicsWithValue(t, "session: Consumer used without a Manager", func() { c.Snapshot() })

	var nilConsumer *session.Consumer
	assert.Panics(t, func() { nilConsumer.SignOut(context.Background()) })
}

func TestConsumer_Delegates(t *testing.T) {
	m := session.NewManager(newSpyStore(), &stubAPI{resp: aliceResponse()})
	c := m.Consumer()
	ctx := context.Background()

	assert.True(t, c.Loading())
	m.Restore(ctx)
	require.NoError(t, c.Wait(ctx))
	assert.False(t, c.Loading())

	_, ok := c.User()
	assert.False(t, ok)

	var states []domain.AuthState
	cancel := c.Subscribe(func(s domain.Snapshot) { states = append(states, s.State) })
	defer cancel()

	require.NoError(t, c.SignIn(ctx, domain.Credentials{Email: "a@x.com", Password: "p"}))
	user, ok := c.User()
	require.True(t, ok)
	assert.Equal(t, "Alice", user.Name)
	assert.True(t, c.Snapshot().Authenticated())

	c.SignOut(ctx)
	assert.False(t, c.Snapshot().Authenticated())
	assert.Equal(t, []domain.AuthState{domain.StateAuthenticated, domain.StateUnauthenticated}, states)
}
