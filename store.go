package authclient

import "sync"

var _ CredentialStore = (*MemoryCredentialStore)(nil)

// MemoryCredentialStore keeps the credential in process memory. It backs
// tests and ephemeral sessions; durable deployments use the bun store.
type MemoryCredentialStore struct {
	mu         sync.RWMutex
	credential *Credential
}

// NewMemoryCredentialStore returns an empty in-memory store
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{}
}

func (s *MemoryCredentialStore) GetToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.credential == nil {
		return ""
	}
	return s.credential.Token
}

func (s *MemoryCredentialStore) GetCredential() (*Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.credential == nil {
		return nil, false
	}
	cred := *s.credential
	return &cred, true
}

// SetCredential stores the token and user pair as one unit
func (s *MemoryCredentialStore) SetCredential(token string, user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.credential = &Credential{Token: token, User: user}
	return nil
}

// Clear empties the store. Clearing an empty store is a no-op.
func (s *MemoryCredentialStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.credential = nil
	return nil
}
