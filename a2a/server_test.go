package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoHandler(_ context.Context, message string) (string, error) {
	return "echo: " + message, nil
}

func newTestServer(t *testing.T, handler Handler) *httptest.Server {
	t.Helper()
	card := AgentCard{
		Name:               "echo",
		Description:        "echoes messages",
		Version:            "1.0.0",
		PreferredTransport: TransportJSONRPC,
	}
	srv := httptest.NewServer(NewServer(card, handler).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func TestServer_ServesCard(t *testing.T) {
	srv := newTestServer(t, echoHandler)

	resp, err := http.Get(srv.URL + WellKnownCardPath)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var card AgentCard
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&card))
	assert.Equal(t, "echo", card.Name)
	assert.Equal(t, TransportJSONRPC, card.PreferredTransport)
}

func TestServer_CardRejectsPost(t *testing.T) {
	srv := newTestServer(t, echoHandler)

	resp, err := http.Post(srv.URL+WellKnownCardPath, "application/json", nil)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func postRPC(t *testing.T, url string, req rpcRequest) rpcResponse {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out rpcResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestServer_JSONRPCRoundTrip(t *testing.T) {
	srv := newTestServer(t, echoHandler)

	out := postRPC(t, srv.URL, rpcRequest{
		JSONRPC: "2.0",
		ID:      "req-1",
		Method:  methodMessageSend,
		Params: sendMessageParams{Message: Message{
			Role:      "user",
			Parts:     []Part{TextPart("hello")},
			MessageID: "msg-1",
		}},
	})

	require.Nil(t, out.Error)
	assert.Equal(t, `"req-1"`, string(out.ID))

	var task Task
	require.NoError(t, json.Unmarshal(out.Result, &task))
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, TaskStateCompleted, task.Status.State)
	require.Len(t, task.Artifacts, 1)
	require.Len(t, task.Artifacts[0].Parts, 1)
	assert.Equal(t, "echo: hello", task.Artifacts[0].Parts[0].Text)
}

func TestServer_JSONRPCUnknownMethod(t *testing.T) {
	srv := newTestServer(t, echoHandler)

	out := postRPC(t, srv.URL, rpcRequest{
		JSONRPC: "2.0",
		ID:      "req-2",
		Method:  "message/stream",
	})

	require.NotNil(t, out.Error)
	assert.Equal(t, rpcCodeMethodNotFound, out.Error.Code)
}

func TestServer_JSONRPCInvalidBody(t *testing.T) {
	srv := newTestServer(t, echoHandler)

	resp, err := http.Post(srv.URL, "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var out rpcResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotNil(t, out.Error)
	assert.Equal(t, rpcCodeParseError, out.Error.Code)
}

func TestServer_HandlerErrorBecomesFailedTask(t *testing.T) {
	srv := newTestServer(t, func(_ context.Context, _ string) (string, error) {
		return "", errors.New("database unavailable")
	})

	out := postRPC(t, srv.URL, rpcRequest{
		JSONRPC: "2.0",
		ID:      "req-3",
		Method:  methodMessageSend,
		Params:  sendMessageParams{Message: Message{Role: "user", Parts: []Part{TextPart("q")}}},
	})

	require.Nil(t, out.Error)
	var task Task
	require.NoError(t, json.Unmarshal(out.Result, &task))
	assert.Equal(t, TaskStateFailed, task.Status.State)
	assert.Equal(t, "Agent error: database unavailable", task.Artifacts[0].Parts[0].Text)
}

func TestServer_HTTPJSONRoute(t *testing.T) {
	srv := newTestServer(t, echoHandler)

	body, err := json.Marshal(sendMessageParams{Message: Message{
		Role:  "user",
		Parts: []Part{TextPart("rest hello")},
	}})
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+httpJSONSendPath, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var task Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&task))
	assert.Equal(t, TaskStateCompleted, task.Status.State)
	assert.Equal(t, "echo: rest hello", task.Artifacts[0].Parts[0].Text)
}

func TestServerAndClient_EndToEnd(t *testing.T) {
	srv := newTestServer(t, echoHandler)

	client := NewClient()
	out, err := client.Call(context.Background(), srv.URL, "round trip")
	require.NoError(t, err)
	assert.Equal(t, "echo: round trip", out)
}
