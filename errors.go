package authclient

import (
	"encoding/json"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

const (
	// TextCodeAuthExpired marks 401/403 on a credentialed request.
	TextCodeAuthExpired = "AUTHENTICATION_EXPIRED"
	// TextCodeAuthDenied marks 401/403 on a request that carried no
	// credential, or a role check failure.
	TextCodeAuthDenied = "AUTHORIZATION_DENIED"
	// TextCodeNetworkError marks transport failures and timeouts.
	TextCodeNetworkError = "NETWORK_ERROR"
	// TextCodeValidationError marks 400 responses with a message body.
	TextCodeValidationError = "VALIDATION_ERROR"
	// TextCodeUnknownError marks anything not classified above.
	TextCodeUnknownError = "UNKNOWN_ERROR"

	textCodeInvalidPhase = "INVALID_SESSION_PHASE_TRANSITION"
	textCodeTokenDecode  = "TOKEN_DECODE_ERROR"
)

// ErrAuthenticationExpired is returned when the server rejects a
// credentialed request with 401/403. It is handled centrally by the
// pipeline (invalidate and redirect) before it reaches the caller.
var ErrAuthenticationExpired = goerrors.New("authentication expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeAuthExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrAuthorizationDenied is returned when access is denied but no
// authenticated session existed to invalidate.
var ErrAuthorizationDenied = goerrors.New("authorization denied", goerrors.CategoryAuthz).
	WithTextCode(TextCodeAuthDenied).
	WithCode(goerrors.CodeForbidden)

// ErrNetwork is returned for transport failures; it never invalidates
// the session.
var ErrNetwork = goerrors.New("request failed, please retry", goerrors.CategoryOperation).
	WithTextCode(TextCodeNetworkError).
	WithCode(goerrors.CodeInternal)

// ErrValidation is returned for 400 responses; the server message is
// carried in the metadata and surfaced verbatim to the originating form.
var ErrValidation = goerrors.New("invalid request", goerrors.CategoryValidation).
	WithTextCode(TextCodeValidationError).
	WithCode(goerrors.CodeBadRequest)

// ErrUnknown is returned for unclassified failures.
var ErrUnknown = goerrors.New("an unexpected error occurred", goerrors.CategoryInternal).
	WithTextCode(TextCodeUnknownError).
	WithCode(goerrors.CodeInternal)

// ErrInvalidPhaseTransition is returned when a requested session phase
// change is not allowed by the transition table.
var ErrInvalidPhaseTransition = goerrors.New("invalid session phase transition", goerrors.CategoryConflict).
	WithTextCode(textCodeInvalidPhase).
	WithCode(goerrors.CodeConflict)

// ErrUnableToDecodeToken is returned when token introspection fails.
var ErrUnableToDecodeToken = goerrors.New("unable to decode token", goerrors.CategoryBadInput).
	WithTextCode(textCodeTokenDecode).
	WithCode(goerrors.CodeBadRequest)

// apiErrorBody is the error envelope the remote API uses for 4xx
// responses.
type apiErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (b apiErrorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}

// classifyResponse maps a non-2xx response to the error taxonomy. The
// 401/403 split keys on whether the pipeline attached a credential to
// that specific request, not on the current store state: a probe sent
// without a token must surface as denial, never as expiry.
func classifyResponse(res *http.Response) error {
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}

	switch res.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		if requestAuthenticated(res) {
			return sentinelWithMetadata(ErrAuthenticationExpired, map[string]any{
				"status": res.StatusCode,
			})
		}
		return sentinelWithMetadata(ErrAuthorizationDenied, map[string]any{
			"status": res.StatusCode,
		})
	case http.StatusBadRequest:
		var body apiErrorBody
		if err := json.NewDecoder(res.Body).Decode(&body); err == nil && body.text() != "" {
			return sentinelWithMetadata(ErrValidation, map[string]any{
				"message": body.text(),
			})
		}
		return sentinelWithMetadata(ErrValidation, map[string]any{
			"status": res.StatusCode,
		})
	default:
		return sentinelWithMetadata(ErrUnknown, map[string]any{
			"status": res.StatusCode,
		})
	}
}

// sentinelWithMetadata attaches per-call metadata to a copy of the
// sentinel. The sentinels are shared package state; mutating one would
// race under concurrent classification and leak metadata from one
// response into the next. errors.Is still matches through Source.
func sentinelWithMetadata(sentinel *goerrors.Error, meta map[string]any) error {
	clone := sentinel.Clone()
	if clone == nil {
		return sentinel
	}
	clone.Source = sentinel
	return clone.WithMetadata(meta)
}

// IsAuthenticationExpired will check for pipeline-handled auth failures
func IsAuthenticationExpired(err error) bool {
	return hasTextCode(err, TextCodeAuthExpired)
}

// IsAuthorizationDenied will check for access denials that left the
// session untouched
func IsAuthorizationDenied(err error) bool {
	return hasTextCode(err, TextCodeAuthDenied)
}

// IsNetworkError will check for transport failures
func IsNetworkError(err error) bool {
	return hasTextCode(err, TextCodeNetworkError)
}

// IsValidationError will check for server-side input rejections
func IsValidationError(err error) bool {
	return hasTextCode(err, TextCodeValidationError)
}

// ValidationMessage extracts the server's message from a validation
// error, or empty if there is none.
func ValidationMessage(err error) string {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return ""
	}
	if msg, ok := richErr.Metadata["message"].(string); ok {
		return msg
	}
	return ""
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == code
	}
	return false
}
