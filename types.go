package authclient

import (
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// CredentialStore is the single source of truth for the session
// credential. SetCredential and Clear touch the token and the cached
// user atomically from the perspective of any reader, and Clear is
// idempotent.
type CredentialStore interface {
	GetToken() string
	GetCredential() (*Credential, bool)
	SetCredential(token string, user User) error
	Clear() error
}

// SessionInvalidator is the slice of the session manager the request
// pipeline depends on. Invalidate reports whether it transitioned the
// session, so the clear-and-redirect side effect runs at most once per
// failure episode no matter how many in-flight requests observe 401/403.
type SessionInvalidator interface {
	Invalidate() bool
}

// Navigator performs route changes on session transitions. The default
// implementation only logs; applications plug in their own.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// ScheduleHandle is a cancellable pending callback. Cancel reports
// whether it prevented the callback from running.
type ScheduleHandle interface {
	Cancel() bool
}

// Scheduler schedules one-shot callbacks. The notifier owns its expiry
// timers through this seam so lifecycle invariants are testable without
// real timers.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) ScheduleHandle
}

// Config holds client options
type Config interface {
	GetBaseURL() string
	GetLoginRoute() string
	GetForbiddenRoute() string
	GetRejectedRouteKey() string
	GetRequestTimeout() time.Duration
	GetNotificationTTL() time.Duration
	GetStorageDSN() string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTHCLIENT "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTHCLIENT "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTHCLIENT "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTHCLIENT "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

type noopNavigator struct {
	logger Logger
}

func (n noopNavigator) Navigate(route string) {
	if n.logger != nil {
		n.logger.Debug("navigation requested", "route", route)
	}
}
