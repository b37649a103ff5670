package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/ubadesk/internal/client/config"
	"github.com/dmitrijs2005/ubadesk/internal/client/guard"
	"github.com/dmitrijs2005/ubadesk/internal/client/session"
	"github.com/dmitrijs2005/ubadesk/internal/logging"
)

type fakeSession struct {
	mu    sync.Mutex
	state session.State
	nav   session.Navigator

	loginErr, registerErr, refreshErr, restoreErr error
	onLogin                                       func(s *session.State)

	calls []string
	email string
	pass  string
}

func (f *fakeSession) record(c string) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
}

func (f *fakeSession) Restore(context.Context) error {
	f.record("restore")
	return f.restoreErr
}

func (f *fakeSession) Login(_ context.Context, email, password string) error {
	f.record("login")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.email, f.pass = email, password
	if f.loginErr != nil {
		return f.loginErr
	}
	if f.onLogin != nil {
		f.onLogin(&f.state)
	}
	return nil
}

func (f *fakeSession) Register(_ context.Context, email, password string) error {
	f.record("register")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.email, f.pass = email, password
	if f.registerErr != nil {
		return f.registerErr
	}
	if f.onLogin != nil {
		f.onLogin(&f.state)
	}
	return nil
}

func (f *fakeSession) Refresh(context.Context) error {
	f.record("refresh")
	return f.refreshErr
}

func (f *fakeSession) Logout() {
	f.record("logout")
	f.mu.Lock()
	f.state = session.State{}
	f.mu.Unlock()
	if f.nav != nil {
		f.nav.Navigate(session.RouteLogin)
	}
}

func (f *fakeSession) Snapshot() session.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

type fakePinger struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (p *fakePinger) Ping(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.err
}

func (p *fakePinger) setErr(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

// syncBuffer is a bytes.Buffer safe for the watcher goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestApp(t *testing.T, s *fakeSession, input string) (*App, *syncBuffer) {
	t.Helper()
	out := &syncBuffer{}
	a := &App{
		config:  &config.Config{ServerURL: "http://api.test"},
		session: s,
		api:     &fakePinger{},
		logger:  logging.Nop(),
		reader:  bufio.NewReader(strings.NewReader(input)),
		out:     out,
	}
	s.nav = a
	a.guard = guard.New(s, a)
	return a, out
}

// plainInput makes GetPassword read from the reader instead of a terminal.
func plainInput(t *testing.T) {
	t.Helper()
	orig := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = orig })
}
