package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendQuerySuccess(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(Response{Answer: "Balance: <b>$500</b>", SessionID: got.SessionID})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	resp, err := c.SendQuery(context.Background(), Request{
		Query:     "What is the balance?",
		SessionID: "session_1_abc",
		ClientID:  "C123",
		Language:  "en",
	})
	require.NoError(t, err)

	assert.Equal(t, "What is the balance?", got.Query)
	assert.Equal(t, "C123", got.ClientID)
	assert.Equal(t, "en", got.Language)
	assert.Equal(t, "Balance: <b>$500</b>", resp.Answer)
	assert.Equal(t, "session_1_abc", resp.SessionID)
}

func TestSendQueryNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Knowledge base for client 'C999' not found."})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	_, err := c.SendQuery(context.Background(), Request{Query: "q", ClientID: "C999"})
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Contains(t, statusErr.Detail, "C999")
}

func TestSendQueryNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, time.Second)
	_, err := c.SendQuery(context.Background(), Request{Query: "q", ClientID: "C123"})
	assert.Error(t, err)
}

func TestStatusErrorMessage(t *testing.T) {
	assert.Contains(t, (&StatusError{StatusCode: 500}).Error(), "500")
	assert.Contains(t, (&StatusError{StatusCode: 404, Detail: "nope"}).Error(), "nope")
}
