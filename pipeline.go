package authclient

import (
	"net/http"
)

// PipelineOption customizes pipeline construction.
type PipelineOption func(*Pipeline)

// WithPipelineTransport sets the base transport wrapped by the pipeline.
func WithPipelineTransport(base http.RoundTripper) PipelineOption {
	return func(p *Pipeline) {
		if base != nil {
			p.base = base
		}
	}
}

// WithPipelineLogger overrides the logger.
func WithPipelineLogger(logger Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

var _ http.RoundTripper = (*Pipeline)(nil)

// Pipeline is the two-stage interceptor around every outbound call.
//
// Outbound: when the store holds a token it is attached as a bearer
// credential and the request context is marked as credentialed. An
// absent credential never blocks or queues the request, the server-side
// rejection is handled inbound.
//
// Inbound: a 401/403 response to a credentialed request invalidates the
// session through the injected SessionInvalidator. Invalidate reports
// whether it transitioned, so with any number of concurrent rejections
// the clear-and-redirect runs exactly once; every request still sees its
// own response. A 401/403 on an uncredentialed request is left for the
// caller to classify as a denial; no session existed to invalidate.
type Pipeline struct {
	base    http.RoundTripper
	store   CredentialStore
	session SessionInvalidator
	logger  Logger
}

// NewPipeline wires the pipeline with explicit dependencies so it is
// testable without a real network stack or persistent storage.
func NewPipeline(store CredentialStore, session SessionInvalidator, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		base:    http.DefaultTransport,
		store:   store,
		session: session,
		logger:  defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p
}

func (p *Pipeline) RoundTrip(req *http.Request) (*http.Response, error) {
	if token := p.store.GetToken(); token != "" {
		req = req.Clone(withCredentialed(req.Context()))
		req.Header.Set("Authorization", "Bearer "+token)
		p.logger.Debug("request to %s with credential", req.URL.Path)
	} else {
		p.logger.Debug("request to %s without credential", req.URL.Path)
	}

	res, err := p.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// The cloned request in scope is the authority on whether a
	// credential was attached; res.Request is transport-dependent and
	// may be nil for injected base transports.
	if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
		if isCredentialed(req.Context()) {
			if p.session.Invalidate() {
				p.logger.Warn("credential rejected with %d by %s", res.StatusCode, req.URL.Path)
			}
		}
	}

	return res, nil
}

// requestAuthenticated reports whether the pipeline attached a
// credential to the request that produced this response.
func requestAuthenticated(res *http.Response) bool {
	if res.Request == nil {
		return false
	}
	return isCredentialed(res.Request.Context())
}
