package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRestored    EventType = "restored"
	EventSignedIn    EventType = "signed_in"
	EventSignInError EventType = "sign_in_error"
	EventSignedOut   EventType = "signed_out"
	EventPersisted   EventType = "persisted"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// SessionEvent describes a session transition.
type SessionEvent struct {
	EventBase
	State  AuthState `json:"state"`
	UserID string    `json:"user_id,omitempty"`
	Err    error     `json:"-"`
}

// LifecycleHooks defines callbacks for session observability.
// OnPersisted fires after the store write of a sign-in and before the in-memory update.
type LifecycleHooks struct {
	OnRestored    func(context.Context, *SessionEvent)
	OnSignedIn    func(context.Context, *SessionEvent)
	OnSignInError func(context.Context, *SessionEvent)
	OnSignedOut   func(context.Context, *SessionEvent)
	OnPersisted   func(context.Context, *SessionEvent)
}
