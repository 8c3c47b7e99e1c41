package authclient

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Storage keys. refreshToken is reserved: it is cleared alongside the
// others but no flow writes it, the backend issues a single long-lived
// token.
const (
	storageKeyAccessToken  = "accessToken"
	storageKeyRefreshToken = "refreshToken"
	storageKeyUser         = "user"
)

const storageOpTimeout = 5 * time.Second

// CredentialRecord is one persisted storage entry
type CredentialRecord struct {
	bun.BaseModel `bun:"table:credentials,alias:cred"`
	Key           string    `bun:"key,pk" json:"key"`
	Value         string    `bun:"value,notnull" json:"value"`
	UpdatedAt     time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

var _ CredentialStore = (*BunCredentialStore)(nil)

// BunCredentialStore persists the credential across process restarts in
// a sqlite-backed table. Readers hit an in-memory snapshot guarded by a
// RWMutex, so GetToken and GetCredential stay synchronous and the
// token/user pair is always observed whole; writers replace the rows in
// one transaction and then swap the snapshot.
type BunCredentialStore struct {
	db     *bun.DB
	logger Logger

	mu         sync.RWMutex
	credential *Credential
}

// OpenStorage opens the sqlite database backing the credential store
func OpenStorage(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "could not open credential storage")
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// NewBunCredentialStore creates the credentials table if needed and
// hydrates the snapshot from whatever survived the last run.
func NewBunCredentialStore(db *bun.DB, opts ...BunStoreOption) (*BunCredentialStore, error) {
	s := &BunCredentialStore{
		db:     db,
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), storageOpTimeout)
	defer cancel()

	if _, err := db.NewCreateTable().
		Model((*CredentialRecord)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "could not create credential table")
	}

	if err := s.load(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// BunStoreOption customizes the durable store.
type BunStoreOption func(*BunCredentialStore)

// WithBunStoreLogger overrides the logger.
func WithBunStoreLogger(logger Logger) BunStoreOption {
	return func(s *BunCredentialStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func (s *BunCredentialStore) load(ctx context.Context) error {
	var records []CredentialRecord
	if err := s.db.NewSelect().
		Model(&records).
		Where("key IN (?)", bun.In([]string{storageKeyAccessToken, storageKeyUser})).
		Scan(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "could not load credential")
	}

	var token string
	var rawUser string
	for _, rec := range records {
		switch rec.Key {
		case storageKeyAccessToken:
			token = rec.Value
		case storageKeyUser:
			rawUser = rec.Value
		}
	}

	// A lone key means a previous write was interrupted, treat the
	// store as empty rather than surface half a credential.
	if token == "" || rawUser == "" {
		if token != "" || rawUser != "" {
			s.logger.Warn("discarding partial credential from storage")
		}
		return nil
	}

	var user User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		s.logger.Warn("discarding undecodable stored user: %v", err)
		return nil
	}

	s.mu.Lock()
	s.credential = &Credential{Token: token, User: user}
	s.mu.Unlock()
	return nil
}

func (s *BunCredentialStore) GetToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.credential == nil {
		return ""
	}
	return s.credential.Token
}

func (s *BunCredentialStore) GetCredential() (*Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.credential == nil {
		return nil, false
	}
	cred := *s.credential
	return &cred, true
}

// SetCredential writes the token and the user JSON in one transaction
// and swaps the snapshot only after the write committed.
func (s *BunCredentialStore) SetCredential(token string, user User) error {
	rawUser, err := json.Marshal(user)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "could not encode user")
	}

	now := time.Now()
	records := []CredentialRecord{
		{Key: storageKeyAccessToken, Value: token, UpdatedAt: now},
		{Key: storageKeyUser, Value: string(rawUser), UpdatedAt: now},
	}

	ctx, cancel := context.WithTimeout(context.Background(), storageOpTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(&records).
			On("CONFLICT (key) DO UPDATE").
			Set("value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		return err
	})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "could not persist credential")
	}

	s.credential = &Credential{Token: token, User: user}
	return nil
}

// Clear removes every storage key, the reserved refreshToken included.
// Clearing an empty store is a no-op.
func (s *BunCredentialStore) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), storageOpTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.NewDelete().
		Model((*CredentialRecord)(nil)).
		Where("key IN (?)", bun.In([]string{
			storageKeyAccessToken,
			storageKeyRefreshToken,
			storageKeyUser,
		})).
		Exec(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "could not clear credential")
	}

	s.credential = nil
	return nil
}
