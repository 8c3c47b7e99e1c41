package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	goerrors "github.com/goliatone/go-errors"
)

// ClientOption customizes client construction.
type ClientOption func(*Client)

// WithLogger sets the logger propagated to every component.
func WithLogger(logger Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCredentialStore overrides the credential store; the config's
// StorageDSN is ignored when set.
func WithCredentialStore(store CredentialStore) ClientOption {
	return func(c *Client) {
		if store != nil {
			c.store = store
		}
	}
}

// WithNavigator sets the navigator invoked on logout and invalidation.
func WithNavigator(nav Navigator) ClientOption {
	return func(c *Client) {
		if nav != nil {
			c.navigator = nav
		}
	}
}

// WithScheduler overrides the notifier's scheduler.
func WithScheduler(s Scheduler) ClientOption {
	return func(c *Client) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// WithBaseTransport sets the transport the pipeline wraps.
func WithBaseTransport(base http.RoundTripper) ClientOption {
	return func(c *Client) {
		if base != nil {
			c.baseTransport = base
		}
	}
}

// Client owns the session pipeline and the typed API surfaces. All
// components are constructed once here and passed by explicit
// reference; nothing reads storage or session state through globals.
type Client struct {
	cfg    Config
	logger Logger

	store     CredentialStore
	session   *SessionManager
	pipeline  *Pipeline
	notifier  *Notifier
	state     *AppState
	navigator Navigator
	scheduler Scheduler

	baseTransport http.RoundTripper
	http          *http.Client
	baseURL       *url.URL

	Auth  *AuthAPI
	Tasks *TaskAPI
	Users *UserAPI
}

// New wires a client against the remote API named by cfg.
func New(cfg Config, opts ...ClientOption) (*Client, error) {
	baseURL, err := url.Parse(cfg.GetBaseURL())
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid base URL")
	}

	c := &Client{
		cfg:     cfg,
		logger:  defLogger{},
		baseURL: baseURL,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.navigator == nil {
		c.navigator = noopNavigator{logger: c.logger}
	}

	if c.store == nil {
		if dsn := cfg.GetStorageDSN(); dsn != "" {
			db, err := OpenStorage(dsn)
			if err != nil {
				return nil, err
			}
			store, err := NewBunCredentialStore(db, WithBunStoreLogger(c.logger))
			if err != nil {
				return nil, err
			}
			c.store = store
		} else {
			c.store = NewMemoryCredentialStore()
		}
	}

	c.session = NewSessionManager(c.store,
		WithSessionNavigator(c.navigator),
		WithSessionLogger(c.logger),
		WithSessionLoginRoute(cfg.GetLoginRoute()),
	)

	pipelineOpts := []PipelineOption{WithPipelineLogger(c.logger)}
	if c.baseTransport != nil {
		pipelineOpts = append(pipelineOpts, WithPipelineTransport(c.baseTransport))
	}
	c.pipeline = NewPipeline(c.store, c.session, pipelineOpts...)

	c.http = &http.Client{
		Transport: c.pipeline,
		Timeout:   cfg.GetRequestTimeout(),
	}

	notifierOpts := []NotifierOption{
		WithNotifierTTL(cfg.GetNotificationTTL()),
		WithNotifierLogger(c.logger),
	}
	if c.scheduler != nil {
		notifierOpts = append(notifierOpts, WithNotifierScheduler(c.scheduler))
	}
	c.notifier = NewNotifier(notifierOpts...)

	c.state = NewAppState()

	c.Auth = &AuthAPI{client: c}
	c.Tasks = &TaskAPI{client: c}
	c.Users = &UserAPI{client: c}

	return c, nil
}

// Session returns the session manager
func (c *Client) Session() *SessionManager {
	return c.session
}

// Notifier returns the notification broadcaster
func (c *Client) Notifier() *Notifier {
	return c.notifier
}

// Store returns the credential store
func (c *Client) Store() CredentialStore {
	return c.store
}

// State returns the transient app state
func (c *Client) State() *AppState {
	return c.state
}

// HTTP returns the pipeline-backed HTTP client for callers that need to
// issue requests outside the typed APIs.
func (c *Client) HTTP() *http.Client {
	return c.http
}

// Gate returns an auth gate bound to this client's session.
func (c *Client) Gate() *Gate {
	gate := NewGate(c.session, c.cfg)
	gate.Logger = c.logger
	return gate
}

// do issues one request through the pipeline and classifies the
// response. Transport failures surface as NetworkError and never touch
// the session.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL.JoinPath(path)
	if query != nil {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryBadInput, "could not encode request body")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "could not build request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "request failed, please retry").
			WithTextCode(TextCodeNetworkError)
	}
	defer res.Body.Close()

	if err := classifyResponse(res); err != nil {
		return err
	}

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryBadInput, "could not decode response body")
		}
	}

	return nil
}
