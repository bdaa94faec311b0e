package webhook

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrigger_DeliversEvent(t *testing.T) {
	received := make(chan map[string]interface{}, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		received <- payload
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.Trigger("idea.created", map[string]interface{}{"idea_id": "abc"})

	select {
	case payload := <-received:
		assert.Equal(t, "idea.created", payload["event"])
		data, ok := payload["data"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "abc", data["idea_id"])
		assert.NotEmpty(t, payload["timestamp"])
	case <-time.After(2 * time.Second):
		t.Fatal("событие не доставлено")
	}
}

func TestSend_ErrorStatusIsDeliveryFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.send(map[string]interface{}{"event": "idea.created"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestSend_SuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	require.NoError(t, client.send(map[string]interface{}{"event": "idea.created"}))
}

func TestTrigger_DisabledWithoutURL(t *testing.T) {
	hits := make(chan struct{}, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits <- struct{}{}
	}))
	defer server.Close()

	client := NewClient("")
	client.Trigger("idea.created", nil)

	select {
	case <-hits:
		t.Fatal("при пустом URL запросов быть не должно")
	case <-time.After(100 * time.Millisecond):
	}
}
