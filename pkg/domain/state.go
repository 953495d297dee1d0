package domain

// AuthState is the lifecycle position of the session manager.
type AuthState string

const (
	StateBooting         AuthState = "booting"         // Restore has not completed yet
	StateUnauthenticated AuthState = "unauthenticated" // No usable session
	StateAuthenticated   AuthState = "authenticated"   // Token and user are known
)

// Snapshot is the read-only view of the session exposed to consumers.
type Snapshot struct {
	// State is the current lifecycle position.
	State AuthState

	// User is nil unless State == StateAuthenticated.
	User *UserProfile

	// Loading is true until the startup restore has completed.
	Loading bool
}

// Authenticated reports whether a user is signed in.
func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated && s.User != nil
}
