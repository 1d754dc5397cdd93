package router

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhstoller/multi-agent-customer-service/model"
)

// scriptedCaller replays canned agent responses and records every call.
type scriptedCaller struct {
	responses map[string]string
	err       error
	calls     []struct{ endpoint, message string }
}

func (c *scriptedCaller) Call(_ context.Context, endpoint, message string) (string, error) {
	c.calls = append(c.calls, struct{ endpoint, message string }{endpoint, message})
	if c.err != nil {
		return "", c.err
	}
	return c.responses[endpoint], nil
}

func testRegistry() *Registry {
	return NewRegistry(
		Endpoint{Name: AgentCustomerData, URL: "http://localhost:10020"},
		Endpoint{Name: AgentSupport, URL: "http://localhost:10021"},
	)
}

func newTestOrchestrator(m model.Model, caller Caller) *Orchestrator {
	return NewOrchestrator(NewPlanner(m), caller, testRegistry())
}

func TestProcessQuery_DelegateThenAnswer(t *testing.T) {
	m := model.NewScriptedModel(
		`{"thought":"need the record","action":"call_agent","agent_name":"customer_data","content":"Get customer 42"}`,
		`{"thought":"have it","action":"final_answer","content":"Customer 42 is Alice Chen."}`,
	)
	caller := &scriptedCaller{responses: map[string]string{
		"http://localhost:10020": `{"success": true, "customer": {"id": 42, "name": "Alice Chen"}}`,
	}}
	orch := newTestOrchestrator(m, caller)

	answer, err := orch.ProcessQuery(context.Background(), "Get customer 42")
	require.NoError(t, err)
	assert.Equal(t, "Customer 42 is Alice Chen.", answer)

	require.Len(t, caller.calls, 1)
	assert.Equal(t, "http://localhost:10020", caller.calls[0].endpoint)
	assert.Equal(t, "Get customer 42", caller.calls[0].message)
	assert.Equal(t, 2, m.Calls())
}

func TestProcessQuery_HistoryGrowsByTwoPerDelegation(t *testing.T) {
	m := model.NewScriptedModel(
		`{"thought":"a","action":"call_agent","agent_name":"customer_data","content":"list customers"}`,
		`{"thought":"b","action":"call_agent","agent_name":"support_agent","content":"refund policy"}`,
		`{"thought":"c","action":"final_answer","content":"done"}`,
	)
	caller := &scriptedCaller{responses: map[string]string{
		"http://localhost:10020": "data result",
		"http://localhost:10021": "support result",
	}}
	orch := newTestOrchestrator(m, caller)

	_, err := orch.ProcessQuery(context.Background(), "complex question")
	require.NoError(t, err)

	// Seed turn, then +2 per delegation.
	assert.Len(t, m.History(0), 1)
	assert.Len(t, m.History(1), 3)
	assert.Len(t, m.History(2), 5)

	second := m.History(1)
	assert.Equal(t, model.RoleModel, second[1].Role)
	assert.Contains(t, second[1].Text, `"call_agent"`)
	assert.Equal(t, model.RoleUser, second[2].Role)
	assert.Equal(t, "Result from customer_data: data result", second[2].Text)

	third := m.History(2)
	assert.Equal(t, "Result from support_agent: support result", third[4].Text)
}

func TestProcessQuery_SeedContainsInstructionsAndQuery(t *testing.T) {
	m := model.NewScriptedModel(`{"thought":"t","action":"final_answer","content":"ok"}`)
	orch := newTestOrchestrator(m, &scriptedCaller{})

	_, err := orch.ProcessQuery(context.Background(), "Where is my order?")
	require.NoError(t, err)

	seed := m.History(0)[0]
	assert.Equal(t, model.RoleUser, seed.Role)
	assert.Contains(t, seed.Text, "Router Agent")
	assert.True(t, strings.HasSuffix(seed.Text, "User Query: Where is my order?"))
}

func TestProcessQuery_CorrectiveReprompt(t *testing.T) {
	m := model.NewScriptedModel(
		"I should look that up for you!",
		`{"thought":"t","action":"final_answer","content":"recovered"}`,
	)
	caller := &scriptedCaller{}
	orch := newTestOrchestrator(m, caller)

	answer, err := orch.ProcessQuery(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "recovered", answer)
	assert.Empty(t, caller.calls)

	// The retry sees the seed plus exactly one corrective user turn.
	require.Equal(t, 2, m.Calls())
	retry := m.History(1)
	require.Len(t, retry, 2)
	assert.Equal(t, model.RoleUser, retry[1].Role)
	assert.Equal(t, "Invalid JSON. Please return ONLY valid JSON.", retry[1].Text)
}

func TestProcessQuery_PersistentGarbageExhaustsBudget(t *testing.T) {
	m := model.NewScriptedModel("not json")
	caller := &scriptedCaller{}
	orch := newTestOrchestrator(m, caller)

	answer, err := orch.ProcessQuery(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, ExhaustedAnswer, answer)
	assert.Equal(t, 15, m.Calls())
	assert.Empty(t, caller.calls)
}

func TestProcessQuery_EndlessDelegationExhaustsBudget(t *testing.T) {
	m := model.NewScriptedModel(
		`{"thought":"loop","action":"call_agent","agent_name":"customer_data","content":"again"}`,
	)
	caller := &scriptedCaller{responses: map[string]string{"http://localhost:10020": "same"}}
	orch := newTestOrchestrator(m, caller)

	answer, err := orch.ProcessQuery(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, ExhaustedAnswer, answer)
	assert.Len(t, caller.calls, 15)
}

func TestProcessQuery_UnknownAgentFedBackAsResult(t *testing.T) {
	m := model.NewScriptedModel(
		`{"thought":"t","action":"call_agent","agent_name":"billing_agent","content":"q"}`,
		`{"thought":"t","action":"final_answer","content":"sorry"}`,
	)
	caller := &scriptedCaller{}
	orch := newTestOrchestrator(m, caller)

	answer, err := orch.ProcessQuery(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "sorry", answer)
	assert.Empty(t, caller.calls)

	second := m.History(1)
	result := second[2].Text
	assert.Contains(t, result, `Result from billing_agent: Error calling agent: unknown agent "billing_agent"`)
	assert.Contains(t, result, "customer_data")
	assert.Contains(t, result, "support_agent")
}

func TestProcessQuery_CommFailureFedBackAsResult(t *testing.T) {
	m := model.NewScriptedModel(
		`{"thought":"t","action":"call_agent","agent_name":"customer_data","content":"q"}`,
		`{"thought":"t","action":"final_answer","content":"the data service is unavailable"}`,
	)
	caller := &scriptedCaller{err: fmt.Errorf("connection refused")}
	orch := newTestOrchestrator(m, caller)

	answer, err := orch.ProcessQuery(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "the data service is unavailable", answer)

	second := m.History(1)
	assert.Equal(t, "Result from customer_data: Error calling agent: connection refused", second[2].Text)
}

func TestProcessQuery_ModelFailureIsFatal(t *testing.T) {
	m := model.NewScriptedModel().FailWith(errors.New("backend down"))
	orch := newTestOrchestrator(m, &scriptedCaller{})

	answer, err := orch.ProcessQuery(context.Background(), "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelGeneration)
	assert.Empty(t, answer)
}

func TestProcessQuery_DeadlineExpiryReturnsExhausted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The model reports the cancellation the way a real client would.
	m := model.NewScriptedModel().FailWith(context.Canceled)
	orch := newTestOrchestrator(m, &scriptedCaller{})

	answer, err := orch.ProcessQuery(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, ExhaustedAnswer, answer)
}

func TestProcessQuery_CustomTurnBudget(t *testing.T) {
	m := model.NewScriptedModel("not json")
	orch := NewOrchestrator(NewPlanner(m), &scriptedCaller{}, testRegistry(),
		func(o *OrchestratorOptions) { o.MaxTurns = 3 },
	)

	answer, err := orch.ProcessQuery(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, ExhaustedAnswer, answer)
	assert.Equal(t, 3, m.Calls())
}

func TestProcessQuery_ConcurrentInvocationsAreIndependent(t *testing.T) {
	done := make(chan struct{})

	for i := 0; i < 4; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			m := model.NewScriptedModel(fmt.Sprintf(`{"thought":"t","action":"final_answer","content":"answer %d"}`, i))
			orch := newTestOrchestrator(m, &scriptedCaller{})
			answer, err := orch.ProcessQuery(context.Background(), "q")
			assert.NoError(t, err)
			assert.Equal(t, fmt.Sprintf("answer %d", i), answer)
		}(i)
	}

	for i := 0; i < 4; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for invocations")
		}
	}
}
