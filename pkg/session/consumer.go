package session

import (
	"context"

	"github.com/aretw0/gobarber/pkg/domain"
)

const errNoManager = "session: Consumer used without a Manager"

// Consumer is the handle screens use to read the session and trigger sign-in/out.
// Obtain it from Manager.Consumer; a zero Consumer is a programming error and
// every method panics on it.
type Consumer struct {
	m *Manager
}

// Consumer returns a handle bound to this manager.
func (m *Manager) Consumer() *Consumer {
	return &Consumer{m: m}
}

func (c *Consumer) manager() *Manager {
	if c == nil || c.m == nil {
		panic(errNoManager)
	}
	return c.m
}

// Snapshot returns the current {state, user, loading} view.
func (c *Consumer) Snapshot() domain.Snapshot {
	return c.manager().Snapshot()
}

// User returns the signed-in user, if any.
func (c *Consumer) User() (domain.UserProfile, bool) {
	snap := c.manager().Snapshot()
	if snap.User == nil {
		return domain.UserProfile{}, false
	}
	return *snap.User, true
}

// Loading reports whether the startup restore is still running.
func (c *Consumer) Loading() bool {
	return c.manager().Snapshot().Loading
}

// SignIn delegates to Manager.SignIn.
func (c *Consumer) SignIn(ctx context.Context, creds domain.Credentials) error {
	return c.manager().SignIn(ctx, creds)
}

// SignOut delegates to Manager.SignOut.
func (c *Consumer) SignOut(ctx context.Context) {
	c.manager().SignOut(ctx)
}

// Subscribe delegates to Manager.Subscribe.
func (c *Consumer) Subscribe(fn func(domain.Snapshot)) (cancel func()) {
	return c.manager().Subscribe(fn)
}

// Wait delegates to Manager.Wait.
func (c *Consumer) Wait(ctx context.Context) error {
	return c.manager().Wait(ctx)
}
