package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/gobarber/internal/logging"
	"github.com/aretw0/gobarber/pkg/domain"
	"github.com/aretw0/gobarber/pkg/ports"
	"golang.org/x/sync/singleflight"
)

// DefaultKeyPrefix namespaces the persisted session keys.
const DefaultKeyPrefix = "@gobarber:"

// Reserved persistence keys. Only the Manager reads or writes them.
const (
	TokenKey = DefaultKeyPrefix + "token"
	UserKey  = DefaultKeyPrefix + "user"
)

// ErrManagerClosed is returned by SignIn once the manager has been closed.
var ErrManagerClosed = errors.New("session manager closed")

// ErrSignInSuperseded is returned by SignIn when a SignOut completed while the new
// session was being persisted. The session is discarded and its keys removed.
var ErrSignInSuperseded = errors.New("sign-in superseded by sign-out")

// Manager owns the in-memory session and its durable copy.
// It is safe for concurrent use.
type Manager struct {
	store ports.KeyValueStore
	api   ports.SessionAPI

	logger       *slog.Logger
	hooks        domain.LifecycleHooks
	metrics      *Metrics
	tokenKey     string
	userKey      string
	singleFlight bool
	group        singleflight.Group
	now          func() time.Time

	mu      sync.RWMutex
	state   domain.AuthState
	session *domain.Session
	loading bool
	closed  bool

	// Bumped on every committed SignIn / SignOut, so a persist that overlapped
	// the other operation can tell and keep the store in line with memory.
	signInGen  uint64
	signOutGen uint64

	restoreOnce sync.Once
	restored    chan struct{}

	subMu   sync.Mutex
	subs    map[uint64]func(domain.Snapshot)
	nextSub uint64
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// WithMetrics records transitions on the given collectors.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// WithKeyPrefix replaces the "@gobarber:" namespace of the persisted keys.
func WithKeyPrefix(prefix string) Option {
	return func(m *Manager) {
		m.tokenKey = prefix + "token"
		m.userKey = prefix + "user"
	}
}

// WithSingleFlight collapses overlapping SignIn calls for the same email into one request.
// Without it, concurrent sign-ins race and the last persistence write wins.
func WithSingleFlight() Option {
	return func(m *Manager) {
		m.singleFlight = true
	}
}

// NewManager creates a Manager in the Booting state. Call Restore once at startup.
func NewManager(store ports.KeyValueStore, api ports.SessionAPI, opts ...Option) *Manager {
	if store == nil {
		panic("session: NewManager requires a KeyValueStore")
	}
	m := &Manager{
		store:    store,
		api:      api,
		logger:   logging.NewNop(), // Default to no-op
		tokenKey: TokenKey,
		userKey:  UserKey,
		now:      time.Now,
		state:    domain.StateBooting,
		loading:  true,
		restored: make(chan struct{}),
		subs:     make(map[uint64]func(domain.Snapshot)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Keys returns the token and user keys this manager owns.
func (m *Manager) Keys() (tokenKey, userKey string) {
	return m.tokenKey, m.userKey
}

// Restore reads the persisted session and leaves the Booting state.
// Only the first call does anything. It never fails: an unreadable or partial
// session is treated as no session, and the reason is logged.
func (m *Manager) Restore(ctx context.Context) {
	m.restoreOnce.Do(func() {
		m.restore(ctx)
	})
}

func (m *Manager) restore(ctx context.Context) {
	sess, rerr := m.readPersisted(ctx)
	if rerr != nil {
		m.logger.Warn("Discarding persisted session", "kind", rerr.Kind, "err", rerr.Err)
	}

	m.mu.Lock()
	closed := m.closed
	if !closed {
		// A SignIn or SignOut that finished first is newer than anything on disk.
		if m.state == domain.StateBooting {
			if sess != nil {
				m.session = sess
				m.state = domain.StateAuthenticated
			} else {
				m.state = domain.StateUnauthenticated
			}
		}
		m.loading = false
	}
	snap := m.snapshotLocked()
	m.mu.Unlock()

	close(m.restored)
	if closed {
		return
	}

	m.logger.Debug("Session restored", "state", snap.State)
	m.metrics.transition(domain.EventRestored)
	m.emit(ctx, m.hooks.OnRestored, domain.EventRestored, snap, rerr)
	m.publish(snap)
}

// readPersisted does the single batched read of both keys.
func (m *Manager) readPersisted(ctx context.Context) (sess *domain.Session, rerr *domain.RestoreError) {
	defer func() {
		if r := recover(); r != nil {
			sess = nil
			rerr = &domain.RestoreError{Kind: domain.RestoreStoreUnavailable, Err: fmt.Errorf("store panicked: %v", r)}
		}
	}()

	entries, err := m.store.MultiGet(ctx, []string{m.tokenKey, m.userKey})
	if err != nil {
		return nil, &domain.RestoreError{Kind: domain.RestoreStoreUnavailable, Err: err}
	}
	values := ports.EntryMap(entries)
	token, user := values[m.tokenKey], values[m.userKey]
	if token == "" || user == "" {
		return nil, nil
	}

	var profile domain.UserProfile
	if err := json.Unmarshal([]byte(user), &profile); err != nil {
		return nil, &domain.RestoreError{Kind: domain.RestoreMalformedUserJSON, Err: err}
	}
	return &domain.Session{Token: token, User: profile}, nil
}

// SignIn opens a session with the given credentials.
// The credentials are persisted nowhere; the returned token and user are written to
// the store before the new state becomes visible. On failure the state is unchanged
// and the error is an *domain.AuthError.
func (m *Manager) SignIn(ctx context.Context, creds domain.Credentials) error {
	if !m.singleFlight {
		return m.signIn(ctx, creds)
	}
	_, err, _ := m.group.Do(creds.Email, func() (any, error) {
		return nil, m.signIn(ctx, creds)
	})
	return err
}

func (m *Manager) signIn(ctx context.Context, creds domain.Credentials) error {
	if m.isClosed() {
		return ErrManagerClosed
	}
	if m.api == nil {
		return m.signInFailed(ctx, &domain.AuthError{Kind: domain.KindRequestFailed, Err: errors.New("no session API configured")})
	}

	start := m.now()
	resp, err := m.api.CreateSession(ctx, creds)
	m.metrics.observeSignIn(m.now().Sub(start))
	if err != nil {
		kind := domain.KindRequestFailed
		if errors.Is(err, domain.ErrMalformedResponse) {
			kind = domain.KindMalformedResponse
		}
		return m.signInFailed(ctx, &domain.AuthError{Kind: kind, Err: err})
	}
	if err := resp.Validate(); err != nil {
		return m.signInFailed(ctx, &domain.AuthError{Kind: domain.KindMalformedResponse, Err: err})
	}

	user := resp.User.Clone()
	userJSON, err := json.Marshal(user)
	if err != nil {
		return m.signInFailed(ctx, &domain.AuthError{Kind: domain.KindMalformedResponse, Err: err})
	}

	m.mu.RLock()
	outGen := m.signOutGen
	m.mu.RUnlock()

	// Write-through: durable state first, memory second.
	err = m.store.MultiSet(ctx, []ports.KeyValue{
		{Key: m.tokenKey, Value: resp.Token},
		{Key: m.userKey, Value: string(userJSON)},
	})
	if err != nil {
		return m.signInFailed(ctx, &domain.AuthError{Kind: domain.KindPersistenceWrite, Err: err})
	}
	m.emit(ctx, m.hooks.OnPersisted, domain.EventPersisted, m.Snapshot(), nil)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrManagerClosed
	}
	if m.signOutGen != outGen {
		m.mu.Unlock()
		// The sign-out may have removed the keys before our write landed.
		_ = m.removeKeys(ctx, "Failed to remove session written during sign-out")
		m.logger.Info("Discarding sign-in, signed out meanwhile", "user_id", user.ID)
		return ErrSignInSuperseded
	}
	m.session = &domain.Session{Token: resp.Token, User: user}
	m.state = domain.StateAuthenticated
	m.signInGen++
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.logger.Info("Signed in", "user_id", user.ID)
	m.metrics.transition(domain.EventSignedIn)
	m.emit(ctx, m.hooks.OnSignedIn, domain.EventSignedIn, snap, nil)
	m.publish(snap)
	return nil
}

func (m *Manager) signInFailed(ctx context.Context, err *domain.AuthError) error {
	m.logger.Warn("Sign in failed", "kind", err.Kind, "err", err.Err)
	m.metrics.transition(domain.EventSignInError)
	m.emit(ctx, m.hooks.OnSignInError, domain.EventSignInError, m.Snapshot(), err)
	return err
}

// SignOut removes the persisted session and clears the in-memory one.
// It always succeeds locally: if the store cannot remove the keys, the failure is
// logged (and reported to OnSignedOut) and memory is cleared anyway, leaving stale
// keys behind until the next successful SignOut or SignIn overwrites them.
// Calling it while signed out still attempts the removal.
func (m *Manager) SignOut(ctx context.Context) {
	m.mu.RLock()
	inGen := m.signInGen
	m.mu.RUnlock()

	err := m.removeKeys(ctx, "Failed to remove persisted session, clearing memory anyway")

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.session = nil
	// Leaving Booting here also stops a pending Restore from bringing the old session back.
	m.state = domain.StateUnauthenticated
	m.signOutGen++
	signedInMeanwhile := m.signInGen != inGen
	snap := m.snapshotLocked()
	m.mu.Unlock()

	if signedInMeanwhile {
		// A sign-in committed during the removal; its write may have landed after it.
		if rerr := m.removeKeys(ctx, "Failed to remove session written during sign-out"); rerr != nil && err == nil {
			err = rerr
		}
	}

	m.logger.Info("Signed out")
	m.metrics.transition(domain.EventSignedOut)
	m.emit(ctx, m.hooks.OnSignedOut, domain.EventSignedOut, snap, err)
	m.publish(snap)
}

func (m *Manager) removeKeys(ctx context.Context, failMsg string) error {
	err := m.store.MultiRemove(ctx, []string{m.tokenKey, m.userKey})
	if err != nil {
		m.logger.Warn(failMsg, "err", err)
	}
	return err
}

// Snapshot returns the current state. It never blocks on I/O.
func (m *Manager) Snapshot() domain.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() domain.Snapshot {
	snap := domain.Snapshot{State: m.state, Loading: m.loading}
	if m.session != nil {
		user := m.session.User.Clone()
		snap.User = &user
	}
	return snap
}

// Session returns a copy of the current session, if any.
func (m *Manager) Session() (domain.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return domain.Session{}, false
	}
	return domain.Session{Token: m.session.Token, User: m.session.User.Clone()}, true
}

// Token implements ports.TokenSource.
func (m *Manager) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return "", false
	}
	return m.session.Token, true
}

// Wait blocks until Restore has completed or ctx is done.
func (m *Manager) Wait(ctx context.Context) error {
	select {
	case <-m.restored:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe registers fn to receive every published snapshot.
// Snapshots are delivered synchronously on the goroutine that caused the transition.
// The returned function removes the subscription.
func (m *Manager) Subscribe(fn func(domain.Snapshot)) (cancel func()) {
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.subMu.Lock()
			delete(m.subs, id)
			m.subMu.Unlock()
		})
	}
}

func (m *Manager) publish(snap domain.Snapshot) {
	m.subMu.Lock()
	ids := make([]uint64, 0, len(m.subs))
	for id := range m.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(domain.Snapshot), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, m.subs[id])
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (m *Manager) emit(ctx context.Context, hook func(context.Context, *domain.SessionEvent), typ domain.EventType, snap domain.Snapshot, err error) {
	if hook == nil {
		return
	}
	ev := &domain.SessionEvent{
		EventBase: domain.EventBase{Timestamp: m.now(), Type: typ},
		State:     snap.State,
		Err:       err,
	}
	if snap.User != nil {
		ev.UserID = snap.User.ID
	}
	hook(ctx, ev)
}

// Close tears the manager down. I/O still in flight completes, but its result is
// ignored: no state change, no publication. Subscribers are dropped.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.subMu.Lock()
	m.subs = make(map[uint64]func(domain.Snapshot))
	m.subMu.Unlock()
}

func (m *Manager) isClosed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}
