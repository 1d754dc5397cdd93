package router

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bhstoller/multi-agent-customer-service/logging"
	"github.com/bhstoller/multi-agent-customer-service/model"
)

// Default agent names the operating instructions reference.
const (
	AgentCustomerData = "customer_data"
	AgentSupport      = "support_agent"
)

// ExhaustedAnswer is the fixed sentinel returned when the turn budget runs
// out (or the caller's deadline expires) without reaching a final answer.
const ExhaustedAnswer = "Error: Maximum turns reached without final answer."

// correctivePrompt is appended as a user turn when the model produced
// unparsable output, consuming one turn of the budget.
const correctivePrompt = "Invalid JSON. Please return ONLY valid JSON."

// instructions are the fixed operating instructions seeded ahead of the user
// query. They define the delegation targets and the JSON plan contract the
// planner parses.
const instructions = `You are the Router Agent (Orchestrator) for a customer service system.
You have two specialized sub-agents you can call:

1. "customer_data"
   - Capabilities: Get customer details, list customers, update records, get ticket history, create tickets.

2. "support_agent"
   - Capabilities: General support advice, troubleshooting, escalation decisions.

Your Goal: Answer the user's request by coordinating these agents.

CRITICAL INSTRUCTION FOR LISTS:
- If the user asks for a list of customers with specific conditions (e.g., "active customers with open tickets"), do NOT check them one by one.
- BATCH YOUR REQUESTS:
  1. Call customer_data to list active customers.
  2. Send a SINGLE message to customer_data requesting ticket history for ALL the retrieved customer IDs at once (e.g. "Get history for customer IDs 4, 5, 8, 10...").
  3. Filter the results yourself based on the returned data.

RESPONSE FORMAT:
You must strictly return a JSON object in this format (no markdown formatting):
{
    "thought": "Explanation of your reasoning",
    "action": "call_agent" OR "final_answer",
    "agent_name": "customer_data" OR "support_agent" (only if action is call_agent),
    "content": "The specific query string to send to that agent" OR "The final text response to the user"
}`

// Caller performs one request/response exchange with a remote agent. The
// protocol client satisfies this; tests substitute doubles.
type Caller interface {
	Call(ctx context.Context, endpoint, message string) (string, error)
}

// OrchestratorOptions configure an Orchestrator.
type OrchestratorOptions struct {
	// MaxTurns bounds planning entries per invocation. Defaults to 15.
	MaxTurns int

	// Logger receives loop diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// Orchestrator answers user queries by running the planning loop: each turn
// it obtains one plan and either returns the final answer or delegates a
// sub-query through the protocol client.
//
// Each ProcessQuery invocation owns an independent conversation; a single
// Orchestrator may serve concurrent invocations.
type Orchestrator struct {
	planner  *Planner
	client   Caller
	registry *Registry
	maxTurns int
	logger   logging.Logger
}

// NewOrchestrator wires the planner, protocol client and agent registry.
func NewOrchestrator(planner *Planner, client Caller, registry *Registry, optFns ...func(o *OrchestratorOptions)) *Orchestrator {
	opts := OrchestratorOptions{MaxTurns: 15}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Orchestrator{
		planner:  planner,
		client:   client,
		registry: registry,
		maxTurns: opts.MaxTurns,
		logger:   opts.Logger,
	}
}

// ProcessQuery answers one user query.
//
// The returned error is non-nil only when the model call itself failed;
// every other failure mode (agent unreachable, unknown agent, malformed
// plans, exhausted turn budget, expired deadline) comes back as text so
// callers can always render a response.
func (o *Orchestrator) ProcessQuery(ctx context.Context, query string) (string, error) {
	history := []model.Turn{
		model.UserTurn(instructions + "\n\nUser Query: " + query),
	}

	for turn := 1; turn <= o.maxTurns; turn++ {
		plan, err := o.planner.Plan(ctx, history)
		if err != nil {
			if errors.Is(err, ErrMalformedPlan) {
				o.logger.Warn("corrective reprompt", "turn", turn)
				history = append(history, model.UserTurn(correctivePrompt))
				continue
			}
			if ctx.Err() != nil {
				o.logger.Warn("invocation deadline expired", "turn", turn)
				return ExhaustedAnswer, nil
			}
			return "", err
		}

		o.logger.Info("plan produced",
			"turn", turn,
			"action", string(plan.Action),
			"thought", plan.Thought,
		)

		if plan.Action == ActionFinalAnswer {
			return plan.Content, nil
		}

		result := o.delegate(ctx, plan)
		history = append(history,
			model.ModelTurn(plan.Raw()),
			model.UserTurn(fmt.Sprintf("Result from %s: %s", plan.AgentName, result)),
		)
	}

	o.logger.Warn("turn budget exhausted", "max_turns", o.maxTurns)
	return ExhaustedAnswer, nil
}

// delegate executes one agent call. Communication failures and unknown agent
// names are returned as error text, never raised; the planning loop treats
// them as observations to reason about.
func (o *Orchestrator) delegate(ctx context.Context, plan *ActionPlan) string {
	ep, ok := o.registry.Resolve(plan.AgentName)
	if !ok {
		o.logger.Warn("unknown agent in plan", "agent", plan.AgentName)
		return fmt.Sprintf("Error calling agent: unknown agent %q, known agents: %v", plan.AgentName, o.registry.Names())
	}

	start := time.Now()
	result, err := o.client.Call(ctx, ep.URL, plan.Content)
	if err != nil {
		o.logger.Error("delegation failed",
			"agent", plan.AgentName,
			"duration", time.Since(start),
			"error", err,
		)
		return fmt.Sprintf("Error calling agent: %s", err)
	}

	o.logger.Info("delegation completed",
		"agent", plan.AgentName,
		"duration", time.Since(start),
	)
	return result
}
