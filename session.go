package authclient

import "sync"

// Phase is the derived session phase
type Phase string

const (
	// PhaseHydrating is the initial phase before the store was consulted
	PhaseHydrating Phase = "hydrating"
	// PhaseUnauthenticated means no credential is held
	PhaseUnauthenticated Phase = "unauthenticated"
	// PhaseAuthenticated means a credential and cached user are held
	PhaseAuthenticated Phase = "authenticated"
)

// PhaseChangeHook is invoked after every phase transition, while the
// manager lock is not held.
type PhaseChangeHook func(from, to Phase)

// SessionOption customizes session manager construction.
type SessionOption func(*SessionManager)

// WithSessionNavigator sets the navigator used on logout and
// invalidation redirects.
func WithSessionNavigator(nav Navigator) SessionOption {
	return func(sm *SessionManager) {
		if nav != nil {
			sm.navigator = nav
		}
	}
}

// WithSessionLogger overrides the logger.
func WithSessionLogger(logger Logger) SessionOption {
	return func(sm *SessionManager) {
		if logger != nil {
			sm.logger = logger
		}
	}
}

// WithSessionLoginRoute overrides the route navigated to on logout and
// invalidation.
func WithSessionLoginRoute(route string) SessionOption {
	return func(sm *SessionManager) {
		if route != "" {
			sm.loginRoute = route
		}
	}
}

// WithSessionChangeHook adds a hook fired after each phase transition.
func WithSessionChangeHook(hook PhaseChangeHook) SessionOption {
	return func(sm *SessionManager) {
		if hook != nil {
			sm.hooks = append(sm.hooks, hook)
		}
	}
}

var _ SessionInvalidator = (*SessionManager)(nil)

// SessionManager is the single derived view over the credential store.
// It starts hydrating, resolves via CheckAuth, and transitions only
// through Login, Logout, or pipeline-triggered Invalidate. Construct one
// per client and pass it by reference; consumers never read the store
// directly.
type SessionManager struct {
	store      CredentialStore
	navigator  Navigator
	logger     Logger
	loginRoute string
	hooks      []PhaseChangeHook

	transitions map[Phase]map[Phase]struct{}

	mu    sync.Mutex
	phase Phase
	user  *User
}

// NewSessionManager returns a manager in the hydrating phase.
func NewSessionManager(store CredentialStore, opts ...SessionOption) *SessionManager {
	sm := &SessionManager{
		store:      store,
		logger:     defLogger{},
		loginRoute: DefaultLoginRoute,
		phase:      PhaseHydrating,
		transitions: map[Phase]map[Phase]struct{}{
			PhaseHydrating: {
				PhaseUnauthenticated: {},
				PhaseAuthenticated:   {},
			},
			PhaseUnauthenticated: {
				PhaseAuthenticated: {},
			},
			PhaseAuthenticated: {
				PhaseUnauthenticated: {},
			},
		},
	}
	sm.navigator = noopNavigator{logger: sm.logger}

	for _, opt := range opts {
		if opt != nil {
			opt(sm)
		}
	}

	return sm
}

// CheckAuth resolves the phase from the credential store. Call it once
// at mount to leave the hydrating phase; later calls re-derive the phase
// from whatever the store currently holds.
func (sm *SessionManager) CheckAuth() Phase {
	cred, ok := sm.store.GetCredential()

	sm.mu.Lock()
	var fired []hookFire
	if ok {
		user := cred.User
		sm.user = &user
		fired = sm.setPhase(PhaseAuthenticated)
	} else {
		sm.user = nil
		fired = sm.setPhase(PhaseUnauthenticated)
	}
	phase := sm.phase
	sm.mu.Unlock()

	sm.fireHooks(fired)
	return phase
}

// Login promotes the session to authenticated. It is called after a
// successful login already stored the credential via the store.
func (sm *SessionManager) Login(user User) error {
	sm.mu.Lock()
	if sm.phase == PhaseAuthenticated {
		sm.user = &user
		sm.mu.Unlock()
		return nil
	}

	if !sm.canTransition(sm.phase, PhaseAuthenticated) {
		from := sm.phase
		sm.mu.Unlock()
		return sentinelWithMetadata(ErrInvalidPhaseTransition, map[string]any{
			"from": string(from),
			"to":   string(PhaseAuthenticated),
		})
	}

	sm.user = &user
	fired := sm.setPhase(PhaseAuthenticated)
	sm.mu.Unlock()

	sm.fireHooks(fired)
	return nil
}

// Logout clears the credential store, moves to unauthenticated, and
// navigates to the login route. Calling it while already unauthenticated
// leaves the state unchanged with no error and no second navigation.
func (sm *SessionManager) Logout() error {
	if err := sm.store.Clear(); err != nil {
		return err
	}

	sm.mu.Lock()
	if sm.phase == PhaseUnauthenticated {
		sm.mu.Unlock()
		return nil
	}

	sm.user = nil
	fired := sm.setPhase(PhaseUnauthenticated)
	sm.mu.Unlock()

	sm.fireHooks(fired)
	sm.navigator.Navigate(sm.loginRoute)
	return nil
}

// Invalidate is the pipeline's entry point for server-reported
// authorization failures. The first caller in an episode clears the
// store, flips the phase, and triggers the redirect; every later caller
// finds the session already unauthenticated and reports false.
func (sm *SessionManager) Invalidate() bool {
	sm.mu.Lock()
	if sm.phase == PhaseUnauthenticated {
		sm.mu.Unlock()
		return false
	}

	if err := sm.store.Clear(); err != nil {
		// The phase still flips: a credential the server rejects is
		// gone either way, and Clear retries on the next logout.
		sm.logger.Error("invalidate could not clear store: %v", err)
	}

	sm.user = nil
	fired := sm.setPhase(PhaseUnauthenticated)
	sm.mu.Unlock()

	sm.fireHooks(fired)
	sm.logger.Warn("session invalidated, redirecting to %s", sm.loginRoute)
	sm.navigator.Navigate(sm.loginRoute)
	return true
}

// CurrentPhase returns the current phase
func (sm *SessionManager) CurrentPhase() Phase {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.phase
}

// CurrentUser returns a copy of the authenticated user, or nil
func (sm *SessionManager) CurrentUser() *User {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.user == nil {
		return nil
	}
	user := *sm.user
	return &user
}

// IsAuthenticated reports whether the session phase is authenticated
func (sm *SessionManager) IsAuthenticated() bool {
	return sm.CurrentPhase() == PhaseAuthenticated
}

// IsAdmin is a pure function of the authenticated user's role
func (sm *SessionManager) IsAdmin() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.phase == PhaseAuthenticated && sm.user != nil && sm.user.IsAdmin()
}

type hookFire struct {
	from, to Phase
}

// setPhase must be called with the lock held. It returns the hook
// invocations to fire once the lock is released.
func (sm *SessionManager) setPhase(to Phase) []hookFire {
	from := sm.phase
	if from == to {
		return nil
	}
	sm.phase = to

	if len(sm.hooks) == 0 {
		return nil
	}
	return []hookFire{{from: from, to: to}}
}

func (sm *SessionManager) fireHooks(fired []hookFire) {
	for _, f := range fired {
		for _, hook := range sm.hooks {
			if hook != nil {
				hook(f.from, f.to)
			}
		}
	}
}

func (sm *SessionManager) canTransition(from, to Phase) bool {
	if allowed, ok := sm.transitions[from]; ok {
		_, exists := allowed[to]
		return exists
	}
	return false
}
