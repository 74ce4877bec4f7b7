package airtable

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/base1/Leads", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		assert.Equal(t, `{hash}="abc"`, r.URL.Query().Get("filterByFormula"))
		_, _ = w.Write([]byte(`{"records":[{"id":"rec123"}]}`))
	}))
	defer srv.Close()

	c := NewClient("key", "base1", WithBaseURL(srv.URL))
	id, err := c.FindRecord(context.Background(), "Leads", "abc")
	require.NoError(t, err)
	assert.Equal(t, "rec123", id)
}

func TestFindRecordNone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"records":[]}`))
	}))
	defer srv.Close()

	c := NewClient("key", "base1", WithBaseURL(srv.URL))
	id, err := c.FindRecord(context.Background(), "Leads", "abc")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestCreateRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload struct {
			Records []struct {
				Fields map[string]interface{} `json:"fields"`
			} `json:"records"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload.Records, 1)
		assert.Equal(t, "Alice", payload.Records[0].Fields["name"])

		_, _ = w.Write([]byte(`{"records":[{"id":"recNew"}]}`))
	}))
	defer srv.Close()

	c := NewClient("key", "base1", WithBaseURL(srv.URL))
	id, err := c.CreateRecord(context.Background(), "Leads", map[string]interface{}{"name": "Alice"})
	require.NoError(t, err)
	assert.Equal(t, "recNew", id)
}

func TestCreateRecordAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"INVALID_VALUE"}`))
	}))
	defer srv.Close()

	c := NewClient("key", "base1", WithBaseURL(srv.URL))
	_, err := c.CreateRecord(context.Background(), "Leads", map[string]interface{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_VALUE")
}
