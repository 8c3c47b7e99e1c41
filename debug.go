package authclient

import (
	"fmt"

	"github.com/goliatone/go-print"
)

// DebugSnapshot is a development-only view of the session: the derived
// phase next to what the store actually holds, with the token masked.
// The two disagreeing (authenticated but no token) is the bug the
// snapshot exists to catch.
type DebugSnapshot struct {
	Phase         Phase      `json:"phase"`
	Authenticated bool       `json:"authenticated"`
	Admin         bool       `json:"admin"`
	Username      string     `json:"username,omitempty"`
	Role          UserRole   `json:"role,omitempty"`
	AccessToken   string     `json:"access_token,omitempty"`
	Token         *TokenInfo `json:"token,omitempty"`
}

// DebugSnapshot captures the current session state for diagnostics.
func (c *Client) DebugSnapshot() DebugSnapshot {
	snapshot := DebugSnapshot{
		Phase:         c.session.CurrentPhase(),
		Authenticated: c.session.IsAuthenticated(),
		Admin:         c.session.IsAdmin(),
	}

	if user := c.session.CurrentUser(); user != nil {
		snapshot.Username = user.Username
		snapshot.Role = user.Role
	}

	if cred, ok := c.store.GetCredential(); ok {
		snapshot.AccessToken = maskToken(cred.Token)
		if info, err := InspectToken(cred.Token); err == nil {
			snapshot.Token = info
		}
	}

	return snapshot
}

func (s DebugSnapshot) String() string {
	return fmt.Sprintf("session %s", print.MaybePrettyJSON(s))
}

// maskToken keeps enough of the token to correlate log lines without
// leaking the credential.
func maskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 20 {
		return token[:1] + "..."
	}
	return token[:20] + "..."
}
