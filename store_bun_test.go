package authclient_test

import (
	"context"
	"path/filepath"
	"testing"

	authclient "github.com/taskdesk/go-authclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStorageDSN(t *testing.T) string {
	t.Helper()
	return "file:" + filepath.Join(t.TempDir(), "credentials.db")
}

func openTestStore(t *testing.T, dsn string) *authclient.BunCredentialStore {
	t.Helper()

	db, err := authclient.OpenStorage(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := authclient.NewBunCredentialStore(db)
	require.NoError(t, err)
	return store
}

func TestBunCredentialStoreStartsEmpty(t *testing.T) {
	store := openTestStore(t, testStorageDSN(t))

	assert.Equal(t, "", store.GetToken())
	_, ok := store.GetCredential()
	assert.False(t, ok)
}

func TestBunCredentialStoreSetGetClear(t *testing.T) {
	store := openTestStore(t, testStorageDSN(t))

	user := authclient.User{Username: "alice", Email: "alice@example.com", Role: authclient.RoleAdmin}
	require.NoError(t, store.SetCredential("t1", user))

	assert.Equal(t, "t1", store.GetToken())
	cred, ok := store.GetCredential()
	require.True(t, ok)
	assert.Equal(t, "t1", cred.Token)
	assert.Equal(t, user, cred.User)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	assert.Equal(t, "", store.GetToken())
	_, ok = store.GetCredential()
	assert.False(t, ok)
}

func TestBunCredentialStoreOverwriteReplacesPair(t *testing.T) {
	store := openTestStore(t, testStorageDSN(t))

	require.NoError(t, store.SetCredential("t1", authclient.User{Username: "alice"}))
	require.NoError(t, store.SetCredential("t2", authclient.User{Username: "bob"}))

	cred, ok := store.GetCredential()
	require.True(t, ok)
	assert.Equal(t, "t2", cred.Token)
	assert.Equal(t, "bob", cred.User.Username)
}

func TestBunCredentialStoreCredentialSurvivesReopen(t *testing.T) {
	dsn := testStorageDSN(t)

	first := openTestStore(t, dsn)
	user := authclient.User{Username: "alice", Email: "alice@example.com", Role: authclient.RoleUser}
	require.NoError(t, first.SetCredential("t1", user))

	second := openTestStore(t, dsn)
	assert.Equal(t, "t1", second.GetToken())

	cred, ok := second.GetCredential()
	require.True(t, ok)
	assert.Equal(t, user, cred.User)
}

func TestBunCredentialStoreClearSurvivesReopen(t *testing.T) {
	dsn := testStorageDSN(t)

	first := openTestStore(t, dsn)
	require.NoError(t, first.SetCredential("t1", authclient.User{Username: "alice"}))
	require.NoError(t, first.Clear())

	second := openTestStore(t, dsn)
	assert.Equal(t, "", second.GetToken())
	_, ok := second.GetCredential()
	assert.False(t, ok)
}

// A lone token row with no user row is a torn write; hydration must
// treat the store as empty instead of surfacing half a credential.
func TestBunCredentialStoreDiscardsPartialCredential(t *testing.T) {
	dsn := testStorageDSN(t)

	db, err := authclient.OpenStorage(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = authclient.NewBunCredentialStore(db)
	require.NoError(t, err)

	rec := authclient.CredentialRecord{Key: "accessToken", Value: "orphan"}
	_, err = db.NewInsert().Model(&rec).Exec(context.Background())
	require.NoError(t, err)

	store, err := authclient.NewBunCredentialStore(db)
	require.NoError(t, err)

	assert.Equal(t, "", store.GetToken())
	_, ok := store.GetCredential()
	assert.False(t, ok)
}
