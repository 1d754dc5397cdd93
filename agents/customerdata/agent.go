// Package customerdata implements the customer-data specialist agent. It
// translates natural-language instructions from the router into concrete
// store operations by asking the model for a structured tool invocation
// list, executing it and returning the raw result envelopes as JSON.
package customerdata

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bhstoller/multi-agent-customer-service/logging"
	"github.com/bhstoller/multi-agent-customer-service/model"
	"github.com/bhstoller/multi-agent-customer-service/store"
)

// instruction defines the translation contract: the model answers with a
// JSON array of tool invocations and nothing else.
const instruction = `You are the Customer Data Agent. You translate instructions into exact data operations.

AVAILABLE TOOLS:
- get_customer(customer_id)
- list_customers(status, limit)        [status: "active" or "disabled", both optional]
- update_customer(customer_id, fields) [fields: object with name/email/phone/status]
- create_ticket(customer_id, issue, priority) [priority: "low", "medium" or "high"]
- get_customer_history(customer_id)

REQUIRED RULES:
- NEVER invent fields, values, or IDs.
- Respond ONLY with a JSON array of tool invocations, no markdown formatting:
  [{"tool": "get_customer", "arguments": {"customer_id": 42}}]
- A request covering several customers becomes several invocations in one array
  (e.g. history for IDs 4, 5 and 8 is three get_customer_history invocations).`

// toolCall is one structured invocation produced by the model.
type toolCall struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
}

// Options configure the agent.
type Options struct {
	// Logger receives execution diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// Agent is the customer-data specialist.
type Agent struct {
	model  model.Model
	store  *store.Store
	logger logging.Logger
}

// New constructs the agent over a model and an open store.
func New(m model.Model, s *store.Store, optFns ...func(o *Options)) *Agent {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Agent{model: m, store: s, logger: opts.Logger}
}

// HandleMessage processes one inbound instruction. The returned string is
// always JSON: one envelope for a single invocation, an array for several.
// Only a model-call failure returns an error; bad model output and failed
// operations are reported inside the JSON so the router can reason about
// them.
func (a *Agent) HandleMessage(ctx context.Context, message string) (string, error) {
	out, err := a.model.Generate(ctx, []model.Turn{
		model.UserTurn(instruction + "\n\nInstruction: " + message),
	})
	if err != nil {
		return "", fmt.Errorf("customer data model call failed: %w", err)
	}

	calls, err := parseToolCalls(out)
	if err != nil {
		a.logger.Warn("unparsable tool plan", "error", err, "raw", out)
		return errorEnvelope(fmt.Sprintf("could not interpret instruction: %s", err)), nil
	}

	results := make([]json.RawMessage, 0, len(calls))
	for _, call := range calls {
		a.logger.Debug("executing tool", "tool", call.Tool)
		results = append(results, a.execute(ctx, call))
	}

	var rendered []byte
	if len(results) == 1 {
		rendered = results[0]
	} else {
		rendered, err = json.Marshal(results)
		if err != nil {
			return "", fmt.Errorf("result marshal failed: %w", err)
		}
	}
	return string(rendered), nil
}

// parseToolCalls parses model output into invocations, accepting either a
// JSON array or a single object.
func parseToolCalls(text string) ([]toolCall, error) {
	clean := strings.ReplaceAll(text, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)

	var calls []toolCall
	if err := json.Unmarshal([]byte(clean), &calls); err != nil {
		var single toolCall
		if err2 := json.Unmarshal([]byte(clean), &single); err2 != nil {
			return nil, fmt.Errorf("invalid tool plan: %v", err)
		}
		calls = []toolCall{single}
	}
	if len(calls) == 0 {
		return nil, fmt.Errorf("empty tool plan")
	}
	for _, c := range calls {
		if c.Tool == "" {
			return nil, fmt.Errorf("invocation missing tool name")
		}
	}
	return calls, nil
}

// execute dispatches one invocation against the store and marshals its
// envelope. Unknown tools and bad arguments become error envelopes.
func (a *Agent) execute(ctx context.Context, call toolCall) json.RawMessage {
	switch call.Tool {
	case "get_customer":
		id, err := intArg(call.Arguments, "customer_id")
		if err != nil {
			return rawErrorEnvelope(err)
		}
		return marshalEnvelope(a.store.GetCustomer(ctx, id))

	case "list_customers":
		status, _ := call.Arguments["status"].(string)
		limit := 0
		if n, err := intArg(call.Arguments, "limit"); err == nil {
			limit = int(n)
		}
		return marshalEnvelope(a.store.ListCustomers(ctx, status, limit))

	case "update_customer":
		id, err := intArg(call.Arguments, "customer_id")
		if err != nil {
			return rawErrorEnvelope(err)
		}
		return marshalEnvelope(a.store.UpdateCustomer(ctx, id, fieldArgs(call.Arguments)))

	case "create_ticket":
		id, err := intArg(call.Arguments, "customer_id")
		if err != nil {
			return rawErrorEnvelope(err)
		}
		issue, _ := call.Arguments["issue"].(string)
		priority, _ := call.Arguments["priority"].(string)
		return marshalEnvelope(a.store.CreateTicket(ctx, id, issue, priority))

	case "get_customer_history":
		id, err := intArg(call.Arguments, "customer_id")
		if err != nil {
			return rawErrorEnvelope(err)
		}
		return marshalEnvelope(a.store.GetCustomerHistory(ctx, id))

	default:
		return json.RawMessage(errorEnvelope(fmt.Sprintf("unknown tool: %s", call.Tool)))
	}
}

// intArg reads a numeric argument; JSON numbers arrive as float64.
func intArg(args map[string]any, key string) (int64, error) {
	v, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("missing argument: %s", key)
	}
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case string:
		var parsed int64
		if _, err := fmt.Sscanf(n, "%d", &parsed); err != nil {
			return 0, fmt.Errorf("argument %s is not a number", key)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("argument %s is not a number", key)
	}
}

// fieldArgs extracts the update field set, accepting either a nested
// "fields" object or inline field keys.
func fieldArgs(args map[string]any) map[string]string {
	fields := make(map[string]string)
	source := args
	if nested, ok := args["fields"].(map[string]any); ok {
		source = nested
	}
	for _, key := range []string{"name", "email", "phone", "status"} {
		if v, ok := source[key].(string); ok {
			fields[key] = v
		}
	}
	return fields
}

func marshalEnvelope(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(errorEnvelope("result marshal failed"))
	}
	return raw
}

func rawErrorEnvelope(err error) json.RawMessage {
	return json.RawMessage(errorEnvelope(err.Error()))
}

func errorEnvelope(message string) string {
	raw, _ := json.Marshal(map[string]any{"success": false, "error": message})
	return string(raw)
}
