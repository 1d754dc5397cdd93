package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlan_CallAgent(t *testing.T) {
	plan, err := ParsePlan(`{"thought":"need data","action":"call_agent","agent_name":"customer_data","content":"Get customer 42"}`)
	require.NoError(t, err)

	assert.Equal(t, ActionCallAgent, plan.Action)
	assert.Equal(t, "customer_data", plan.AgentName)
	assert.Equal(t, "Get customer 42", plan.Content)
	assert.Equal(t, "need data", plan.Thought)
}

func TestParsePlan_FinalAnswer(t *testing.T) {
	plan, err := ParsePlan(`{"thought":"done","action":"final_answer","content":"Customer 42 is Alice."}`)
	require.NoError(t, err)

	assert.Equal(t, ActionFinalAnswer, plan.Action)
	assert.Equal(t, "Customer 42 is Alice.", plan.Content)
}

func TestParsePlan_StripsFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "json fence",
			input: "```json\n{\"thought\":\"ok\",\"action\":\"final_answer\",\"content\":\"hi\"}\n```",
		},
		{
			name:  "bare fence",
			input: "```\n{\"thought\":\"ok\",\"action\":\"final_answer\",\"content\":\"hi\"}\n```",
		},
		{
			name:  "surrounding whitespace",
			input: "  \n{\"thought\":\"ok\",\"action\":\"final_answer\",\"content\":\"hi\"}\n  ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := ParsePlan(tt.input)
			require.NoError(t, err)
			assert.Equal(t, "hi", plan.Content)
		})
	}
}

func TestParsePlan_RawIsCleanedText(t *testing.T) {
	plan, err := ParsePlan("```json\n{\"thought\":\"ok\",\"action\":\"final_answer\",\"content\":\"hi\"}\n```")
	require.NoError(t, err)

	assert.NotContains(t, plan.Raw(), "```")
	assert.Contains(t, plan.Raw(), `"final_answer"`)
}

func TestParsePlan_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not json", input: "I think I should call the data agent."},
		{name: "empty", input: ""},
		{name: "unknown action", input: `{"thought":"x","action":"retry","content":"y"}`},
		{name: "call_agent missing agent_name", input: `{"thought":"x","action":"call_agent","content":"y"}`},
		{name: "call_agent missing content", input: `{"thought":"x","action":"call_agent","agent_name":"customer_data"}`},
		{name: "final_answer with agent_name", input: `{"thought":"x","action":"final_answer","agent_name":"customer_data","content":"y"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlan(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedPlan)
		})
	}
}

func TestParsePlan_FinalAnswerAllowsEmptyContent(t *testing.T) {
	plan, err := ParsePlan(`{"thought":"nothing to add","action":"final_answer","content":""}`)
	require.NoError(t, err)
	assert.Equal(t, "", plan.Content)
}
