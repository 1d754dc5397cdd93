// Package a2a implements the agent-to-agent protocol used between the router
// and the specialist agents: the wire schema (agent cards, messages, tasks,
// artifacts), a client that discovers and calls remote agents, and a server
// that exposes a message handler behind the same protocol.
//
// Discovery works through a well-known HTTP path serving the agent card.
// Message exchange uses JSON-RPC (`message/send`) as the preferred transport
// with a plain HTTP+JSON fallback for agents that do not speak JSON-RPC.
package a2a
