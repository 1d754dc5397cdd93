package a2a

import "encoding/json"

// methodMessageSend is the JSON-RPC method for single-shot message dispatch.
const methodMessageSend = "message/send"

// httpJSONSendPath is the HTTP+JSON fallback route, relative to the agent's
// base URL.
const httpJSONSendPath = "/v1/message:send"

// JSON-RPC 2.0 error codes used by this protocol surface.
const (
	rpcCodeParseError     = -32700
	rpcCodeMethodNotFound = -32601
	rpcCodeInternalError  = -32603
)

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// rpcIncoming mirrors rpcRequest with raw params so the server can defer
// payload decoding until the method is known.
type rpcIncoming struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}
