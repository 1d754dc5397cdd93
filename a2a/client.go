package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/bhstoller/multi-agent-customer-service/logging"
)

var (
	// ErrDiscovery indicates the agent card could not be fetched or parsed.
	// Nothing is cached on discovery failure, so a later call may retry.
	ErrDiscovery = errors.New("agent card discovery failed")

	// ErrSend indicates message dispatch failed after successful discovery.
	ErrSend = errors.New("message send failed")
)

// ClientOptions configure the protocol client.
type ClientOptions struct {
	// Timeout bounds the full round trip of one call, including an agent
	// that accepted the connection but is still producing its answer.
	Timeout time.Duration

	// ConnectTimeout bounds connection establishment only. An agent that
	// never connects is cut off here rather than at the full Timeout.
	ConnectTimeout time.Duration

	// Cache holds discovered agent cards. Defaults to a fresh cache so each
	// client is isolated; share one across clients deliberately.
	Cache *CardCache

	// Logger receives client diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// Client performs request/response exchanges with remote agents. It discovers
// and caches agent cards, negotiates the transport declared on the card and
// extracts a single text result from the first completed task.
//
// A Client is safe for concurrent use.
type Client struct {
	http   *http.Client
	cache  *CardCache
	logger logging.Logger
}

// NewClient constructs a protocol client.
// Defaults: 240s round-trip timeout, 10s connect timeout, isolated card cache.
func NewClient(optFns ...func(o *ClientOptions)) *Client {
	opts := ClientOptions{
		Timeout:        240 * time.Second,
		ConnectTimeout: 10 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Cache == nil {
		opts.Cache = NewCardCache()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: opts.ConnectTimeout,
		}).DialContext,
		TLSHandshakeTimeout: opts.ConnectTimeout,
	}

	return &Client{
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		cache:  opts.Cache,
		logger: opts.Logger,
	}
}

// Call sends one message to the agent at the given base URL and returns the
// primary text payload of the first completed response task.
//
// The agent card is resolved through the cache, fetching it from the
// well-known path on first use. Transport follows the card's preference:
// JSON-RPC unless the card asks for plain HTTP+JSON.
func (c *Client) Call(ctx context.Context, endpoint, message string) (string, error) {
	card, err := c.resolveCard(ctx, endpoint)
	if err != nil {
		return "", err
	}

	msg := Message{
		Role:      "user",
		Parts:     []Part{TextPart(message)},
		MessageID: uuid.NewString(),
	}

	var task *Task
	if card.PreferredTransport == TransportHTTPJSON {
		task, err = c.sendHTTPJSON(ctx, endpoint, msg)
	} else {
		task, err = c.sendJSONRPC(ctx, endpoint, msg)
	}
	if err != nil {
		return "", err
	}

	return renderTask(task), nil
}

// resolveCard returns the cached card for the endpoint or fetches it from the
// well-known discovery path. Failed fetches cache nothing.
func (c *Client) resolveCard(ctx context.Context, endpoint string) (*AgentCard, error) {
	if card, ok := c.cache.Get(endpoint); ok {
		return card, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+WellKnownCardPath, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDiscovery, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDiscovery, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d from %s", ErrDiscovery, resp.StatusCode, endpoint)
	}

	var card AgentCard
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDiscovery, err)
	}

	c.cache.Put(endpoint, &card)
	c.logger.Debug("agent card discovered", "endpoint", endpoint, "agent", card.Name)

	return &card, nil
}

// sendJSONRPC dispatches the message over the JSON-RPC transport.
func (c *Client) sendJSONRPC(ctx context.Context, endpoint string, msg Message) (*Task, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  methodMessageSend,
		Params:  sendMessageParams{Message: msg},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSend, err)
	}

	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		return nil, err
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(raw, &rpcResp); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON-RPC response: %v", ErrSend, err)
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("%w: remote error %d: %s", ErrSend, rpcResp.Error.Code, rpcResp.Error.Message)
	}

	var task Task
	if err := json.Unmarshal(rpcResp.Result, &task); err != nil {
		return nil, fmt.Errorf("%w: invalid task payload: %v", ErrSend, err)
	}
	return &task, nil
}

// sendHTTPJSON dispatches the message over the plain HTTP+JSON transport.
func (c *Client) sendHTTPJSON(ctx context.Context, endpoint string, msg Message) (*Task, error) {
	body, err := json.Marshal(sendMessageParams{Message: msg})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSend, err)
	}

	raw, err := c.post(ctx, endpoint+httpJSONSendPath, body)
	if err != nil {
		return nil, err
	}

	var task Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return nil, fmt.Errorf("%w: invalid task payload: %v", ErrSend, err)
	}
	return &task, nil
}

func (c *Client) post(ctx context.Context, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSend, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSend, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrSend, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSend, err)
	}
	return raw, nil
}

// renderTask extracts the primary text payload of a task: the first text part
// of the first artifact. When the task deviates from that shape the whole
// task is rendered as JSON instead; downstream planning is resilient to noisy
// text and a diagnostic beats a hard failure here.
func renderTask(task *Task) string {
	if len(task.Artifacts) > 0 && len(task.Artifacts[0].Parts) > 0 {
		if p := task.Artifacts[0].Parts[0]; p.Type == "text" && p.Text != "" {
			return p.Text
		}
	}
	raw, err := json.Marshal(task)
	if err != nil {
		return fmt.Sprintf("%+v", task)
	}
	return string(raw)
}
