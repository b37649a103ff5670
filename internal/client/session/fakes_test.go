package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dmitrijs2005/ubadesk/internal/client/client"
	"github.com/dmitrijs2005/ubadesk/internal/client/models"
	"github.com/dmitrijs2005/ubadesk/internal/logging"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu         sync.Mutex
	loginFn    func(ctx context.Context, email, password string) (*client.AuthResult, error)
	registerFn func(ctx context.Context, email, password string) (*client.AuthResult, error)
	meFn       func(ctx context.Context) (*models.User, error)

	loginCalls, registerCalls, meCalls int
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*client.AuthResult, error) {
	f.mu.Lock()
	f.loginCalls++
	fn := f.loginFn
	f.mu.Unlock()
	if fn == nil {
		return nil, errors.New("unexpected Login")
	}
	return fn(ctx, email, password)
}

func (f *fakeAPI) Register(ctx context.Context, email, password string) (*client.AuthResult, error) {
	f.mu.Lock()
	f.registerCalls++
	fn := f.registerFn
	f.mu.Unlock()
	if fn == nil {
		return nil, errors.New("unexpected Register")
	}
	return fn(ctx, email, password)
}

func (f *fakeAPI) Me(ctx context.Context) (*models.User, error) {
	f.mu.Lock()
	f.meCalls++
	fn := f.meFn
	f.mu.Unlock()
	if fn == nil {
		return nil, errors.New("unexpected Me")
	}
	return fn(ctx)
}

func (f *fakeAPI) calls() (login, register, me int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginCalls, f.registerCalls, f.meCalls
}

type fakeStore struct {
	mu        sync.Mutex
	token     string
	loadErr   error
	saveErr   error
	deleteErr error
}

func (s *fakeStore) LoadToken(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.loadErr
}

func (s *fakeStore) SaveToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.token = token
	return nil
}

func (s *fakeStore) DeleteToken(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.token = ""
	return nil
}

func (s *fakeStore) stored() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

type fakeNav struct {
	mu     sync.Mutex
	routes []string
}

func (n *fakeNav) Navigate(route string) {
	n.mu.Lock()
	n.routes = append(n.routes, route)
	n.mu.Unlock()
}

func (n *fakeNav) visited() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.routes...)
}

type harness struct {
	api   *fakeAPI
	store *fakeStore
	creds *client.Credentials
	nav   *fakeNav
	m     *Manager
}

func newHarness(t *testing.T, persisted string, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		api:   &fakeAPI{},
		store: &fakeStore{token: persisted},
		creds: client.NewCredentials(),
		nav:   &fakeNav{},
	}
	m, err := New(context.Background(), h.api, h.store, h.creds, h.nav, logging.Nop(), opts...)
	require.NoError(t, err)
	h.m = m
	return h
}

func authOK(token string, u models.User) func(context.Context, string, string) (*client.AuthResult, error) {
	return func(context.Context, string, string) (*client.AuthResult, error) {
		return &client.AuthResult{Token: token, User: &u}, nil
	}
}

func authFail(code int, message string) func(context.Context, string, string) (*client.AuthResult, error) {
	return func(context.Context, string, string) (*client.AuthResult, error) {
		return nil, &client.APIError{StatusCode: code, Message: message, Kind: client.ErrUnauthorized}
	}
}

// gate blocks a fake call until released. started is closed on entry.
type gate struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGate() *gate {
	return &gate{started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gate) enter() {
	g.once.Do(func() { close(g.started) })
	<-g.release
}
