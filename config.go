package authclient

import "time"

const (
	// DefaultLoginRoute is where invalidated sessions are redirected.
	DefaultLoginRoute = "/login"
	// DefaultForbiddenRoute is where authenticated users lacking a
	// required role are redirected.
	DefaultForbiddenRoute = "/forbidden"
	// DefaultNotificationTTL is how long a notification stays visible
	// unless closed early.
	DefaultNotificationTTL = 5 * time.Second
	// DefaultRequestTimeout bounds every outbound API call.
	DefaultRequestTimeout = 30 * time.Second

	defaultRejectedRouteKey = "rejected_route"
)

// SimpleConfig is a plain-struct Config implementation. Zero values fall
// back to the package defaults.
type SimpleConfig struct {
	BaseURL          string
	LoginRoute       string
	ForbiddenRoute   string
	RejectedRouteKey string
	RequestTimeout   time.Duration
	NotificationTTL  time.Duration
	// StorageDSN selects the durable credential store, e.g.
	// "file:session.db?cache=shared". Empty keeps credentials in memory.
	StorageDSN string
}

var _ Config = SimpleConfig{}

func (c SimpleConfig) GetBaseURL() string {
	return c.BaseURL
}

func (c SimpleConfig) GetLoginRoute() string {
	if c.LoginRoute == "" {
		return DefaultLoginRoute
	}
	return c.LoginRoute
}

func (c SimpleConfig) GetForbiddenRoute() string {
	if c.ForbiddenRoute == "" {
		return DefaultForbiddenRoute
	}
	return c.ForbiddenRoute
}

func (c SimpleConfig) GetRejectedRouteKey() string {
	if c.RejectedRouteKey == "" {
		return defaultRejectedRouteKey
	}
	return c.RejectedRouteKey
}

func (c SimpleConfig) GetRequestTimeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return DefaultRequestTimeout
	}
	return c.RequestTimeout
}

func (c SimpleConfig) GetNotificationTTL() time.Duration {
	if c.NotificationTTL <= 0 {
		return DefaultNotificationTTL
	}
	return c.NotificationTTL
}

func (c SimpleConfig) GetStorageDSN() string {
	return c.StorageDSN
}
