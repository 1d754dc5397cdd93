package a2a

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/bhstoller/multi-agent-customer-service/logging"
)

// Handler processes one inbound message and returns the agent's text reply.
// A returned error marks the resulting task as failed; the error text is
// still delivered to the caller as the task's artifact so the remote planner
// can reason about it.
type Handler func(ctx context.Context, message string) (string, error)

// ServerOptions configure an agent protocol server.
type ServerOptions struct {
	// Logger receives request diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// Server exposes a Handler behind the agent protocol: the agent card on the
// well-known discovery path, JSON-RPC message/send on the base URL and the
// HTTP+JSON fallback route.
type Server struct {
	card    AgentCard
	handler Handler
	logger  logging.Logger
}

// NewServer wraps a handler with the protocol surface described by card.
func NewServer(card AgentCard, handler Handler, optFns ...func(o *ServerOptions)) *Server {
	opts := ServerOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Server{card: card, handler: handler, logger: opts.Logger}
}

// Card returns the agent card this server advertises.
func (s *Server) Card() AgentCard { return s.card }

// Routes returns the HTTP handler serving the protocol surface.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(WellKnownCardPath, s.handleCard)
	mux.HandleFunc(httpJSONSendPath, s.handleHTTPJSON)
	mux.HandleFunc("/", s.handleJSONRPC)
	return mux
}

func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.card)
}

func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req rpcIncoming
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, rpcResponse{
			JSONRPC: "2.0",
			Error:   &rpcError{Code: rpcCodeParseError, Message: "invalid JSON-RPC request"},
		})
		return
	}

	if req.Method != methodMessageSend {
		writeJSON(w, rpcResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &rpcError{Code: rpcCodeMethodNotFound, Message: "method not found: " + req.Method},
		})
		return
	}

	var params sendMessageParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		writeJSON(w, rpcResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &rpcError{Code: rpcCodeParseError, Message: "invalid message/send params"},
		})
		return
	}

	task := s.runTask(r.Context(), params.Message)
	result, err := json.Marshal(task)
	if err != nil {
		writeJSON(w, rpcResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &rpcError{Code: rpcCodeInternalError, Message: "task marshal failed"},
		})
		return
	}

	writeJSON(w, rpcResponse{JSONRPC: "2.0", ID: req.ID, Result: result})
}

func (s *Server) handleHTTPJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var params sendMessageParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "invalid message payload", http.StatusBadRequest)
		return
	}

	writeJSON(w, s.runTask(r.Context(), params.Message))
}

// runTask executes the handler for one inbound message and wraps the reply in
// a completed task carrying a single text artifact. Handler failures produce
// a failed task whose artifact carries the error text.
func (s *Server) runTask(ctx context.Context, msg Message) Task {
	start := time.Now()

	reply, err := s.handler(ctx, msg.Text())
	state := TaskStateCompleted
	if err != nil {
		state = TaskStateFailed
		reply = "Agent error: " + err.Error()
	}

	s.logger.Info("message handled",
		"agent", s.card.Name,
		"state", string(state),
		"duration", time.Since(start),
	)

	return Task{
		ID:     uuid.NewString(),
		Status: TaskStatus{State: state},
		Artifacts: []Artifact{{
			ArtifactID: uuid.NewString(),
			Name:       "response",
			Parts:      []Part{TextPart(reply)},
		}},
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
