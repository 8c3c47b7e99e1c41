package authclient

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// LogoutUserMessage requests a session teardown.
type LogoutUserMessage struct{}

func (e LogoutUserMessage) Type() string { return "session.logout" }

// LogoutUserHandler tears the session down. The server call inside is
// best-effort, so the handler only fails when the local clear does.
type LogoutUserHandler struct {
	client *Client
}

// NewLogoutUserHandler returns a handler bound to the client.
func NewLogoutUserHandler(client *Client) *LogoutUserHandler {
	return &LogoutUserHandler{client: client}
}

func (h *LogoutUserHandler) Execute(ctx context.Context, event LogoutUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during logout",
		)
	default:
	}

	if err := h.client.Auth.Logout(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "could not clear session")
	}

	h.client.notifier.Add(NotificationInfo, "You have been signed out")
	return nil
}
