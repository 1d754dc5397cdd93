// Package router contains the orchestration core of the customer-service
// system: a bounded-turn planning loop that answers a user query by
// coordinating specialist agents over the agent protocol.
//
// The Planner drives the language model and parses its output into typed
// action plans. The Orchestrator runs the loop: obtain a plan, then either
// return the final answer or delegate to an agent and fold the result back
// into the conversation for the next turn. Everything that goes wrong below
// the orchestrator, short of the model call itself failing, is surfaced back
// to the model as data it can reason about.
package router
