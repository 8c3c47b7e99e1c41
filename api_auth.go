package authclient

import (
	"context"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

// AuthAPI drives the /auth endpoints and keeps the credential store and
// session manager in step with them.
type AuthAPI struct {
	client *Client
}

// Login posts the credentials, persists the returned token and user as
// one credential, and promotes the session. The login response carries
// no user id, the cached user keeps id 0 to match the backend contract.
func (a *AuthAPI) Login(ctx context.Context, payload LoginRequest) (*LoginResponse, error) {
	if err := payload.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid login payload").
			WithTextCode(TextCodeValidationError)
	}

	var res LoginResponse
	if err := a.client.do(ctx, http.MethodPost, "/auth/login", nil, payload, &res); err != nil {
		return nil, err
	}

	user := User{
		ID:       0,
		Username: res.Username,
		Email:    res.Email,
		Role:     res.Role,
	}

	if err := a.client.store.SetCredential(res.Token, user); err != nil {
		return nil, err
	}

	if err := a.client.session.Login(user); err != nil {
		return nil, err
	}

	a.client.logger.Info("login complete for %s", res.Username)
	return &res, nil
}

// Logout notifies the server best-effort and always clears the local
// session. A failed server call is logged, never surfaced, and never
// blocks the local clear.
func (a *AuthAPI) Logout(ctx context.Context) error {
	if token := a.client.store.GetToken(); token != "" {
		body := map[string]string{"token": token}
		if err := a.client.do(ctx, http.MethodPost, "/auth/logout", nil, body, nil); err != nil {
			a.client.logger.Warn("logout request failed: %v", err)
		}
	}

	return a.client.session.Logout()
}

// CurrentUser returns the cached user from the credential store, or nil
// when no credential is held.
func (a *AuthAPI) CurrentUser() *User {
	cred, ok := a.client.store.GetCredential()
	if !ok {
		return nil
	}
	user := cred.User
	return &user
}

// IsAuthenticated reports whether a credential is currently held.
func (a *AuthAPI) IsAuthenticated() bool {
	return a.client.store.GetToken() != ""
}
