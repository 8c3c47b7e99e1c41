package authclient

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// LoginUserMessage carries a login form submission.
type LoginUserMessage struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (e LoginUserMessage) Type() string { return "session.login" }

// LoginUserHandler runs the login flow and surfaces the outcome through
// the notifier: success and validation messages go to the broadcaster,
// everything else propagates to the dispatcher.
type LoginUserHandler struct {
	client *Client
}

// NewLoginUserHandler returns a handler bound to the client.
func NewLoginUserHandler(client *Client) *LoginUserHandler {
	return &LoginUserHandler{client: client}
}

func (h *LoginUserHandler) Execute(ctx context.Context, event LoginUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during login",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *LoginUserHandler) execute(ctx context.Context, event LoginUserMessage) error {
	res, err := h.client.Auth.Login(ctx, LoginRequest{
		Email:    event.Email,
		Password: event.Password,
	})
	if err != nil {
		if IsValidationError(err) {
			if msg := ValidationMessage(err); msg != "" {
				h.client.notifier.Add(NotificationError, msg)
			} else {
				h.client.notifier.Add(NotificationError, "Please check your credentials and try again")
			}
			return err
		}
		if IsNetworkError(err) {
			h.client.notifier.Add(NotificationError, "Could not reach the server, please retry")
			return err
		}
		return err
	}

	h.client.notifier.Add(NotificationSuccess, "Welcome back, "+res.Username)
	return nil
}
