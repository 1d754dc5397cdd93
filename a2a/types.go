package a2a

// WellKnownCardPath is the discovery path every agent serves its card under,
// relative to the agent's base URL.
const WellKnownCardPath = "/.well-known/agent-card.json"

// Transport identifiers negotiated through the agent card.
const (
	TransportJSONRPC  = "JSONRPC"
	TransportHTTPJSON = "HTTP+JSON"
)

// AgentCard conveys key information about a remote agent: identity, the base
// URL it is reachable at, supported transports and the skills it declares.
// Cards are fetched once per endpoint and cached for the process lifetime.
type AgentCard struct {
	Name               string       `json:"name"`
	Description        string       `json:"description"`
	URL                string       `json:"url"`
	Version            string       `json:"version"`
	Capabilities       Capabilities `json:"capabilities"`
	PreferredTransport string       `json:"preferredTransport,omitempty"`
	DefaultInputModes  []string     `json:"defaultInputModes,omitempty"`
	DefaultOutputModes []string     `json:"defaultOutputModes,omitempty"`
	Skills             []Skill      `json:"skills,omitempty"`
}

// Capabilities declares optional protocol features supported by an agent.
type Capabilities struct {
	Streaming         bool `json:"streaming"`
	PushNotifications bool `json:"pushNotifications"`
}

// Skill describes one capability an agent advertises on its card.
type Skill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	Examples    []string `json:"examples,omitempty"`
}

// TaskState is the lifecycle state of a task created by message dispatch.
type TaskState string

const (
	TaskStateSubmitted TaskState = "submitted"
	TaskStateWorking   TaskState = "working"
	TaskStateCompleted TaskState = "completed"
	TaskStateFailed    TaskState = "failed"
	TaskStateCanceled  TaskState = "canceled"
)

// Part is a segment of message or artifact content. Only text parts are
// produced by this system; unknown part types are preserved for rendering.
type Part struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// TextPart builds a plain text content part.
func TextPart(text string) Part { return Part{Type: "text", Text: text} }

// Message is one unit of role-tagged content sent to or from an agent.
type Message struct {
	Role      string `json:"role"`
	Parts     []Part `json:"parts"`
	MessageID string `json:"messageId,omitempty"`
}

// Text concatenates the text parts of the message.
func (m Message) Text() string {
	var out string
	for _, p := range m.Parts {
		if p.Type == "text" {
			out += p.Text
		}
	}
	return out
}

// Artifact is an output produced by an agent while completing a task.
type Artifact struct {
	ArtifactID string `json:"artifactId,omitempty"`
	Name       string `json:"name,omitempty"`
	Parts      []Part `json:"parts"`
}

// TaskStatus carries the current lifecycle state of a task.
type TaskStatus struct {
	State TaskState `json:"state"`
}

// Task is the unit of work a remote agent creates for a dispatched message.
// A completed task carries the agent's reply as artifacts.
type Task struct {
	ID        string     `json:"id"`
	ContextID string     `json:"contextId,omitempty"`
	Status    TaskStatus `json:"status"`
	Artifacts []Artifact `json:"artifacts,omitempty"`
}

// sendMessageParams is the payload of a message/send exchange on both the
// JSON-RPC and HTTP+JSON transports.
type sendMessageParams struct {
	Message Message `json:"message"`
}
