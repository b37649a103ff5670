package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ubadesk/internal/client/client"
	"github.com/dmitrijs2005/ubadesk/internal/client/guard"
	"github.com/dmitrijs2005/ubadesk/internal/client/session"
	"github.com/dmitrijs2005/ubadesk/internal/common"
)

// Indirections over the interactive input helpers, swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

func (a *App) readCredentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

func (a *App) Register(ctx context.Context) error {
	return a.authenticate(ctx, a.session.Register)
}

func (a *App) Login(ctx context.Context) error {
	return a.authenticate(ctx, a.session.Login)
}

func (a *App) authenticate(ctx context.Context, op func(ctx context.Context, email, password string) error) error {
	email, password, err := a.readCredentials()
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	defer common.WipeByteArray(password)

	if err := op(ctx, email, string(password)); err != nil {
		if !errors.Is(err, session.ErrSuperseded) {
			fmt.Fprintln(a.out, "Error:", a.failureMessage(err))
		}
		return err
	}

	if u := a.session.Snapshot().User; u != nil {
		fmt.Fprintf(a.out, "Logged in as %s (credits: %d)\n", u.Email, u.Credits)
	}
	return nil
}

// failureMessage prefers the message the session recorded for the last
// failure and falls back to rendering err.
func (a *App) failureMessage(err error) string {
	if msg := a.session.Snapshot().LastError; msg != "" {
		return msg
	}
	return client.Message(err)
}

func (a *App) Logout(ctx context.Context) error {
	a.session.Logout()
	return nil
}

// enter runs fn behind the guard and reports a pending session.
func (a *App) enter(ctx context.Context, c guard.Capability, fn func(ctx context.Context) error) error {
	err := a.guard.Enter(ctx, c, fn)
	if errors.Is(err, guard.ErrPending) {
		fmt.Fprintln(a.out, "Session is loading, please wait.")
	}
	return err
}

func (a *App) WhoAmI(ctx context.Context) error {
	return a.enter(ctx, guard.Authenticated, func(ctx context.Context) error {
		u := a.session.Snapshot().User
		if u == nil {
			fmt.Fprintln(a.out, "Profile not loaded, try 'refresh'.")
			return nil
		}
		role := "user"
		if u.IsAdmin {
			role = "admin"
		}
		fmt.Fprintf(a.out, "id: %d\nemail: %s\ncredits: %d\nrole: %s\n", u.ID, u.Email, u.Credits, role)
		return nil
	})
}

func (a *App) Refresh(ctx context.Context) error {
	return a.enter(ctx, guard.Authenticated, func(ctx context.Context) error {
		if err := a.session.Refresh(ctx); err != nil {
			if !errors.Is(err, session.ErrSuperseded) {
				fmt.Fprintln(a.out, "Error:", a.failureMessage(err))
			}
			return err
		}
		if u := a.session.Snapshot().User; u != nil {
			fmt.Fprintf(a.out, "Profile refreshed, credits: %d\n", u.Credits)
		}
		return nil
	})
}

func (a *App) Admin(ctx context.Context) error {
	return a.enter(ctx, guard.Admin, func(ctx context.Context) error {
		u := a.session.Snapshot().User
		if u == nil {
			return guard.ErrDenied
		}
		fmt.Fprintf(a.out, "Administrator %s, credits: %d\n", u.Email, u.Credits)
		return nil
	})
}

func (a *App) Status(ctx context.Context) error {
	s := a.session.Snapshot()

	mode := a.Mode()
	if mode == ModeUnknown {
		mode = "unknown"
	}

	fmt.Fprintf(a.out, "server: %s (%s)\n", a.config.ServerURL, mode)
	fmt.Fprintf(a.out, "session: %s, authenticated: %t, admin: %t\n", s.Status, s.IsAuthenticated(), s.IsAdmin())
	if s.LastError != "" {
		fmt.Fprintf(a.out, "last error: %s\n", s.LastError)
	}
	return nil
}
