package authclient_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	authclient "github.com/taskdesk/go-authclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPipelineClient(t *testing.T, store authclient.CredentialStore, nav authclient.Navigator) *http.Client {
	t.Helper()

	sm := authclient.NewSessionManager(store, authclient.WithSessionNavigator(nav))
	sm.CheckAuth()

	return &http.Client{Transport: authclient.NewPipeline(store, sm)}
}

func TestPipelineAttachesBearerHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := authclient.NewMemoryCredentialStore()
	require.NoError(t, store.SetCredential("t1", authclient.User{Username: "alice"}))

	client := newPipelineClient(t, store, &recordingNavigator{})

	res, err := client.Get(srv.URL + "/tasks")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, "Bearer t1", gotAuth)
}

func TestPipelineLeavesUncredentialedRequestBare(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := authclient.NewMemoryCredentialStore()
	client := newPipelineClient(t, store, &recordingNavigator{})

	res, err := client.Get(srv.URL + "/tasks")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, "", gotAuth)
}

func TestPipelineInvalidatesOnRejectedCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	store := authclient.NewMemoryCredentialStore()
	require.NoError(t, store.SetCredential("t1", authclient.User{Username: "alice"}))

	nav := &recordingNavigator{}
	client := newPipelineClient(t, store, nav)

	res, err := client.Get(srv.URL + "/tasks")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "", store.GetToken())
	assert.Equal(t, []string{authclient.DefaultLoginRoute}, nav.Routes())
}

// A 401/403 on a request that carried no credential is a denial for the
// caller to handle; there is no session to tear down.
func TestPipelineIgnoresRejectionWithoutCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	store := authclient.NewMemoryCredentialStore()
	nav := &recordingNavigator{}
	client := newPipelineClient(t, store, nav)

	res, err := client.Get(srv.URL + "/admin")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Equal(t, 0, nav.Count())
}

func TestPipelinePassesThroughOtherStatuses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := authclient.NewMemoryCredentialStore()
	require.NoError(t, store.SetCredential("t1", authclient.User{Username: "alice"}))

	nav := &recordingNavigator{}
	client := newPipelineClient(t, store, nav)

	res, err := client.Get(srv.URL + "/tasks")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, "t1", store.GetToken())
	assert.Equal(t, 0, nav.Count())
}

// A base transport is not required to populate Response.Request; the
// rejection handling keys on the outbound request instead.
func TestPipelineHandlesResponseWithoutRequest(t *testing.T) {
	base := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusUnauthorized,
			Header:     http.Header{},
			Body:       http.NoBody,
		}, nil
	})

	store := authclient.NewMemoryCredentialStore()
	require.NoError(t, store.SetCredential("t1", authclient.User{Username: "alice"}))

	nav := &recordingNavigator{}
	sm := authclient.NewSessionManager(store, authclient.WithSessionNavigator(nav))
	sm.CheckAuth()

	pipeline := authclient.NewPipeline(store, sm, authclient.WithPipelineTransport(base))

	req, err := http.NewRequest(http.MethodGet, "http://api.internal/tasks", nil)
	require.NoError(t, err)

	res, err := pipeline.RoundTrip(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "", store.GetToken())
	assert.Equal(t, 1, nav.Count())
}

// Every in-flight request that gets rejected still sees its own
// response, but the clear-and-redirect runs exactly once.
func TestPipelineConcurrentRejectionsInvalidateOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	store := authclient.NewMemoryCredentialStore()
	require.NoError(t, store.SetCredential("t1", authclient.User{Username: "alice"}))

	nav := &recordingNavigator{}
	sm := authclient.NewSessionManager(store, authclient.WithSessionNavigator(nav))
	sm.CheckAuth()
	client := &http.Client{Transport: authclient.NewPipeline(store, sm)}

	const inFlight = 25

	var wg sync.WaitGroup
	statuses := make([]int, inFlight)

	for i := 0; i < inFlight; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := client.Get(srv.URL + "/tasks")
			if err != nil {
				return
			}
			defer res.Body.Close()
			statuses[i] = res.StatusCode
		}(i)
	}
	wg.Wait()

	for i := 0; i < inFlight; i++ {
		assert.Equal(t, http.StatusUnauthorized, statuses[i])
	}

	assert.Equal(t, 1, nav.Count())
	assert.Equal(t, "", store.GetToken())
	assert.Equal(t, authclient.PhaseUnauthenticated, sm.CurrentPhase())
	assert.False(t, sm.Invalidate())
}
