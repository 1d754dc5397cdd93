package router

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhstoller/multi-agent-customer-service/a2a"
	"github.com/bhstoller/multi-agent-customer-service/agents/customerdata"
	"github.com/bhstoller/multi-agent-customer-service/agents/support"
	"github.com/bhstoller/multi-agent-customer-service/model"
	"github.com/bhstoller/multi-agent-customer-service/store"
)

// Full stack: planning loop through the protocol client to real agent
// servers, with scripted models standing in for the LLM everywhere.
func TestOrchestratorThroughProtocolStack(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "e2e.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.SeedDemo(context.Background()))

	dataModel := model.NewScriptedModel(`[{"tool":"get_customer","arguments":{"customer_id":1}}]`)
	dataAgent := customerdata.New(dataModel, st)
	dataSrv := httptest.NewServer(a2a.NewServer(
		a2a.AgentCard{Name: "customer_data", PreferredTransport: a2a.TransportJSONRPC},
		dataAgent.HandleMessage,
	).Routes())
	t.Cleanup(dataSrv.Close)

	supportModel := model.NewScriptedModel("Ask the customer to clear their browser cache.")
	supportAgent := support.New(supportModel)
	supportSrv := httptest.NewServer(a2a.NewServer(
		a2a.AgentCard{Name: "support_agent", PreferredTransport: a2a.TransportJSONRPC},
		supportAgent.HandleMessage,
	).Routes())
	t.Cleanup(supportSrv.Close)

	routerModel := model.NewScriptedModel(
		`{"thought":"fetch record","action":"call_agent","agent_name":"customer_data","content":"Get customer 1"}`,
		`{"thought":"get advice","action":"call_agent","agent_name":"support_agent","content":"Customer Alice Johnson cannot load pages"}`,
		`{"thought":"done","action":"final_answer","content":"Alice Johnson should clear their browser cache."}`,
	)

	orch := NewOrchestrator(
		NewPlanner(routerModel),
		a2a.NewClient(),
		NewRegistry(
			Endpoint{Name: AgentCustomerData, URL: dataSrv.URL},
			Endpoint{Name: AgentSupport, URL: supportSrv.URL},
		),
	)

	answer, err := orch.ProcessQuery(context.Background(), "Customer 1 cannot load pages, what should they do?")
	require.NoError(t, err)
	assert.Equal(t, "Alice Johnson should clear their browser cache.", answer)

	// The data agent's envelope travelled back through the protocol intact.
	second := routerModel.History(1)
	result := second[2].Text
	require.Contains(t, result, "Result from customer_data: ")
	var env store.CustomerResult
	payload := result[len("Result from customer_data: "):]
	require.NoError(t, json.Unmarshal([]byte(payload), &env))
	require.True(t, env.Success)
	assert.Equal(t, "Alice Johnson", env.Customer.Name)

	third := routerModel.History(2)
	assert.Equal(t, "Result from support_agent: Ask the customer to clear their browser cache.", third[4].Text)
}
