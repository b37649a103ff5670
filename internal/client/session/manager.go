package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/ubadesk/internal/client/client"
	"github.com/dmitrijs2005/ubadesk/internal/client/models"
	"github.com/dmitrijs2005/ubadesk/internal/logging"
)

const msgCredentialsRequired = "Email and password are required"

var (
	errTokenExpired = errors.New("stored token has expired")
	errEmptyProfile = fmt.Errorf("%w: empty profile", client.ErrServer)
)

type Option func(*Manager)

// WithClock overrides the time source used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

type Manager struct {
	api    API
	store  TokenStore
	creds  CredentialSink
	nav    Navigator
	logger logging.Logger
	now    func() time.Time

	mu        sync.Mutex
	token     string
	user      *models.User
	lastError string

	restorePending bool
	// unverified is true while the loaded token has not been checked
	// against the server.
	unverified bool
	// busy is true while the call of generation gen is in flight.
	busy   bool
	gen    uint64
	cancel context.CancelFunc
}

// New builds a manager and loads the persisted token, if any. With a token
// the manager starts in StatusLoading until Restore runs.
func New(ctx context.Context, api API, store TokenStore, creds CredentialSink, nav Navigator, logger logging.Logger, opts ...Option) (*Manager, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}

	m := &Manager{
		api:    api,
		store:  store,
		creds:  creds,
		nav:    nav,
		logger: logger.With("component", "session"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	token, err := store.LoadToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}

	if token != "" {
		m.token = token
		m.restorePending = true
		m.unverified = true
		creds.Set(token)
	} else {
		creds.Clear()
	}

	return m, nil
}

// begin supersedes any call in flight and starts a new generation.
// mu must be held.
func (m *Manager) begin(ctx context.Context) (context.Context, uint64) {
	if m.cancel != nil {
		m.cancel()
	}
	callCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.gen++
	m.busy = true
	return callCtx, m.gen
}

// finishLocked ends the call of generation gen and reports whether it is
// still current. mu must be held.
func (m *Manager) finishLocked(gen uint64) bool {
	if gen != m.gen {
		return false
	}
	m.busy = false
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	return true
}

// clearLocked drops the token and profile everywhere. Storage errors are
// logged only. mu must be held.
func (m *Manager) clearLocked(ctx context.Context) {
	m.token = ""
	m.user = nil
	m.creds.Clear()
	if err := m.store.DeleteToken(ctx); err != nil {
		m.logger.Error(ctx, "failed to remove persisted token", "error", err)
	}
}

// Restore validates the token loaded by New by fetching the profile. Once
// the token is checked later calls are no-ops. Any failure, unauthorized or
// not, logs the session out without surfacing an error. A failed Login or
// Register that cancelled a restore runs it again before returning.
func (m *Manager) Restore(ctx context.Context) error {
	m.mu.Lock()
	if !m.restorePending {
		m.mu.Unlock()
		return nil
	}
	m.restorePending = false
	token := m.token
	callCtx, gen := m.begin(ctx)
	m.mu.Unlock()

	var (
		user *models.User
		err  error
	)
	if tokenExpired(token, m.now()) {
		err = errTokenExpired
	} else {
		user, err = m.api.Me(callCtx)
		if err == nil && user == nil {
			err = errEmptyProfile
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.finishLocked(gen) {
		return ErrSuperseded
	}
	m.unverified = false

	if err != nil {
		m.logger.Warn(ctx, "session restore failed, logging out", "error", err)
		m.clearLocked(context.WithoutCancel(ctx))
		return nil
	}

	m.user = user.Clone()
	m.logger.Info(ctx, "session restored", "user_id", user.ID)
	return nil
}

func (m *Manager) Login(ctx context.Context, email, password string) error {
	return m.authenticate(ctx, "login", m.api.Login, email, password)
}

// Register creates an account and, on success, behaves exactly like Login.
func (m *Manager) Register(ctx context.Context, email, password string) error {
	return m.authenticate(ctx, "register", m.api.Register, email, password)
}

type authCall func(ctx context.Context, email, password string) (*client.AuthResult, error)

func (m *Manager) authenticate(ctx context.Context, op string, call authCall, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		err := client.NewValidationError(msgCredentialsRequired)
		m.mu.Lock()
		m.lastError = err.Message
		m.mu.Unlock()
		return err
	}

	m.mu.Lock()
	callCtx, gen := m.begin(ctx)
	m.mu.Unlock()

	res, err := call(callCtx, email, password)
	if err == nil && (res == nil || res.Token == "") {
		err = fmt.Errorf("%w: %s returned no token", client.ErrServer, op)
	}

	m.mu.Lock()
	if !m.finishLocked(gen) {
		m.mu.Unlock()
		m.logger.Debug(ctx, op+" result discarded", "email", email)
		return ErrSuperseded
	}

	if err != nil {
		m.lastError = client.Message(err)
		// A restore cancelled by this call never validated the stored token.
		recheck := m.unverified && !m.restorePending && m.token != ""
		if recheck {
			m.restorePending = true
		}
		m.mu.Unlock()

		m.logger.Info(ctx, op+" failed", "email", email, "error", err)
		if recheck {
			_ = m.Restore(ctx)
		}
		return err
	}
	defer m.mu.Unlock()

	if err := m.store.SaveToken(context.WithoutCancel(ctx), res.Token); err != nil {
		m.logger.Error(ctx, "failed to persist token", "error", err)
	}

	m.token = res.Token
	m.user = res.User.Clone()
	m.lastError = ""
	m.restorePending = false
	m.unverified = false
	m.creds.Set(res.Token)

	m.logger.Info(ctx, op+" succeeded", "email", email)
	return nil
}

// Refresh re-fetches the profile. An unauthorized answer ends the session
// and navigates to the login route; other failures keep the session and
// set LastError.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	if m.token == "" {
		m.mu.Unlock()
		return ErrNotAuthenticated
	}
	callCtx, gen := m.begin(ctx)
	m.mu.Unlock()

	user, err := m.api.Me(callCtx)
	if err == nil && user == nil {
		err = errEmptyProfile
	}

	m.mu.Lock()
	if !m.finishLocked(gen) {
		m.mu.Unlock()
		return ErrSuperseded
	}

	switch {
	case err == nil:
		m.user = user.Clone()
		m.unverified = false
		m.lastError = ""
		m.mu.Unlock()
		return nil

	case errors.Is(err, client.ErrUnauthorized):
		m.clearLocked(context.WithoutCancel(ctx))
		m.lastError = client.Message(err)
		m.mu.Unlock()
		m.logger.Info(ctx, "session rejected by server, logged out", "error", err)
		m.nav.Navigate(RouteLogin)
		return err

	default:
		m.lastError = client.Message(err)
		m.mu.Unlock()
		return err
	}
}

// Logout ends the session unconditionally and navigates to the login
// route. A call in flight is cancelled and its result discarded.
func (m *Manager) Logout() {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.gen++
	m.busy = false
	m.restorePending = false
	m.unverified = false
	m.lastError = ""
	m.clearLocked(context.Background())
	m.mu.Unlock()

	m.logger.Info(context.Background(), "logged out")
	m.nav.Navigate(RouteLogin)
}

func (m *Manager) statusLocked() Status {
	if m.restorePending || m.busy {
		return StatusLoading
	}
	return StatusReady
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{
		Token:     m.token,
		User:      m.user.Clone(),
		Status:    m.statusLocked(),
		LastError: m.lastError,
	}
}

func (m *Manager) IsAuthenticated() bool {
	return m.Snapshot().IsAuthenticated()
}

func (m *Manager) IsAdmin() bool {
	return m.Snapshot().IsAdmin()
}

func (m *Manager) User() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user.Clone()
}

func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusLocked()
}

func (m *Manager) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastError
}
