package session

import "github.com/aretw0/gobarber/pkg/domain"

// Transition is one edge of the session lifecycle.
type Transition struct {
	From  domain.AuthState
	To    domain.AuthState
	Event domain.EventType
}

// Lifecycle lists every transition a Manager can make, in a stable order.
// Self-loops are state-preserving events (a failed sign-in, a repeated sign-out).
func Lifecycle() []Transition {
	return []Transition{
		{domain.StateBooting, domain.StateAuthenticated, domain.EventRestored},
		{domain.StateBooting, domain.StateUnauthenticated, domain.EventRestored},
		{domain.StateBooting, domain.StateAuthenticated, domain.EventSignedIn},
		{domain.StateBooting, domain.StateBooting, domain.EventSignInError},
		{domain.StateBooting, domain.StateUnauthenticated, domain.EventSignedOut},
		{domain.StateUnauthenticated, domain.StateAuthenticated, domain.EventSignedIn},
		{domain.StateUnauthenticated, domain.StateUnauthenticated, domain.EventSignInError},
		{domain.StateUnauthenticated, domain.StateUnauthenticated, domain.EventSignedOut},
		{domain.StateAuthenticated, domain.StateAuthenticated, domain.EventSignedIn},
		{domain.StateAuthenticated, domain.StateAuthenticated, domain.EventSignInError},
		{domain.StateAuthenticated, domain.StateUnauthenticated, domain.EventSignedOut},
	}
}
