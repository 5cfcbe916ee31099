package sync

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jobsync/jobsync/common/gerror"
	"github.com/jobsync/jobsync/common/logger"
)

func newTestStore(t *testing.T, serverURL string) *HTTPStore {
	t.Helper()
	store, err := NewHTTPStore(HTTPStoreConfig{
		Endpoint: serverURL,
		Username: "admin",
		APIToken: "token123",
		RetryMax: -1,
	}, logger.NoOpLogFactory)
	require.NoError(t, err)
	return store
}

func TestHTTPStoreExists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/job/known/api/json":
			w.WriteHeader(http.StatusOK)
		case "/job/missing/api/json":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	store := newTestStore(t, server.URL)

	exists, err := store.Exists(context.Background(), "known")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = store.Exists(context.Background(), "missing")
	require.NoError(t, err)
	require.False(t, exists)

	// A failing probe is an error, never a "does not exist".
	_, err = store.Exists(context.Background(), "broken")
	require.Error(t, err)
}

func TestHTTPStoreExistsUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	store := newTestStore(t, server.URL)
	_, err := store.Exists(context.Background(), "secret")
	require.Error(t, err)
	require.True(t, gerror.IsUnauthorized(err))
}

func TestHTTPStoreCreateSendsDocumentAndCrumb(t *testing.T) {
	config := []byte("<?xml version='1.0' encoding='UTF-8'?>\n<project></project>\n")
	var created []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/crumbIssuer/api/json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"crumb":"abc123","crumbRequestField":"Jenkins-Crumb"}`))
		case r.URL.Path == "/createItem" && r.Method == http.MethodPost:
			require.Equal(t, "new-job", r.URL.Query().Get("name"))
			require.Equal(t, xmlContentType, r.Header.Get("Content-Type"))
			require.Equal(t, "abc123", r.Header.Get("Jenkins-Crumb"))
			user, token, ok := r.BasicAuth()
			require.True(t, ok)
			require.Equal(t, "admin", user)
			require.Equal(t, "token123", token)
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			created = body
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	store := newTestStore(t, server.URL)
	require.NoError(t, store.Create(context.Background(), "new-job", config))
	require.Equal(t, config, created)
}

func TestHTTPStoreCreateWithoutCrumbIssuer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/crumbIssuer/api/json":
			w.WriteHeader(http.StatusNotFound)
		case r.URL.Path == "/createItem":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	store := newTestStore(t, server.URL)
	require.NoError(t, store.Create(context.Background(), "new-job", []byte("<project></project>")))
}

func TestHTTPStoreUpdate(t *testing.T) {
	var updatedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/crumbIssuer/api/json":
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPost:
			updatedPath = r.URL.Path
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	store := newTestStore(t, server.URL)
	require.NoError(t, store.Update(context.Background(), "existing", []byte("<project></project>")))
	require.Equal(t, "/job/existing/config.xml", updatedPath)
}

func TestHTTPStoreUpdateFailureReportsStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/crumbIssuer/api/json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("invalid config"))
	}))
	defer server.Close()

	store := newTestStore(t, server.URL)
	err := store.Update(context.Background(), "existing", []byte("<project></project>"))
	require.Error(t, err)
	require.True(t, gerror.HasHTTPStatusCode(err, http.StatusBadRequest))
	require.Contains(t, err.Error(), "invalid config")
}

func TestNewHTTPStoreRequiresEndpoint(t *testing.T) {
	_, err := NewHTTPStore(HTTPStoreConfig{}, logger.NoOpLogFactory)
	require.Error(t, err)
	require.True(t, gerror.IsValidationFailed(err))
}
