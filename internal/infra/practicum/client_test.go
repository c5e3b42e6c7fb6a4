package practicum

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"homework_status_bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	log, _ := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return NewClient(ClientConfig{Endpoint: endpoint, Token: "secret", Timeout: 2 * time.Second}, log)
}

func TestFetch_Success(t *testing.T) {
	body := `{"homeworks": [{"homework_name": "proj1", "status": "approved"}], "current_date": 1000}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/user_api/homework_statuses/", r.URL.Path)
		assert.Equal(t, "OAuth secret", r.Header.Get("Authorization"))
		assert.Equal(t, "500", r.URL.Query().Get("from_date"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/api/user_api/homework_statuses/")
	raw, err := c.Fetch(context.Background(), 500)

	require.NoError(t, err)
	assert.JSONEq(t, body, string(raw))
}

func TestFetch_NoContentIsUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Fetch(context.Background(), 0)

	require.Error(t, err)
	assert.ErrorIs(t, err, homework.ErrUnexpectedStatus)
	var he *homework.Error
	require.ErrorAs(t, err, &he)
	assert.Equal(t, homework.KindUnexpectedStatus, he.Kind)
	assert.Equal(t, http.StatusNoContent, he.StatusCode)
}

func TestFetch_ErrorStatusCarriesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code": "not_authenticated", "message": "Учетные данные не были предоставлены."}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Fetch(context.Background(), 0)

	require.Error(t, err)
	assert.Equal(t, homework.KindUnexpectedStatus, homework.KindOf(err))
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "not_authenticated")
}

func TestFetch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>` + strings.Repeat("x", 2000) + `</html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Fetch(context.Background(), 0)

	require.Error(t, err)
	assert.ErrorIs(t, err, homework.ErrMalformedBody)
	assert.ErrorIs(t, err, homework.ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "(2013 bytes)")
}

func TestFetch_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	_, err := newTestClient(t, endpoint).Fetch(context.Background(), 0)

	require.Error(t, err)
	assert.ErrorIs(t, err, homework.ErrTransport)
	assert.Equal(t, homework.KindTransport, homework.KindOf(err))
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	log, _ := logtest.NewNullLogger()
	c := NewClient(ClientConfig{Endpoint: srv.URL, Token: "secret", Timeout: 50 * time.Millisecond}, log)
	_, err := c.Fetch(context.Background(), 0)

	require.Error(t, err)
	assert.Equal(t, homework.KindTransport, homework.KindOf(err))
}
