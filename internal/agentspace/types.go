package agentspace

import (
	"fmt"
)

// ReasoningEngine locates a deployed reasoning engine resource in the
// Agent Engine project.
type ReasoningEngine struct {
	ProjectID string
	Location  string
	EngineID  string
}

// ResourcePath returns the fully qualified resource path referenced by
// the link payload.
func (r ReasoningEngine) ResourcePath() string {
	return fmt.Sprintf("projects/%s/locations/%s/reasoningEngines/%s", r.ProjectID, r.Location, r.EngineID)
}

// Agent is a directory entry as returned by the service: a remote record
// keyed by a directory-assigned resource name, referencing a deployed
// reasoning engine.
type Agent struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
}

// linkRequest is the creation payload. Field names follow the wire shape
// the directory service accepts.
type linkRequest struct {
	DisplayName        string             `json:"displayName"`
	Description        string             `json:"description"`
	AdkAgentDefinition adkAgentDefinition `json:"adk_agent_definition"`
}

type adkAgentDefinition struct {
	ToolSettings               toolSettings               `json:"tool_settings"`
	ProvisionedReasoningEngine provisionedReasoningEngine `json:"provisioned_reasoning_engine"`
}

type toolSettings struct {
	ToolDescription string `json:"tool_description"`
}

type provisionedReasoningEngine struct {
	ReasoningEngine string `json:"reasoning_engine"`
}

type listResponse struct {
	Agents []Agent `json:"agents"`
}

// LinkResult reports a successful link call: the created entry plus the
// raw response body for display.
type LinkResult struct {
	Agent Agent
	Raw   []byte
}

// ListResult carries the full raw listing body plus the decoded entries.
type ListResult struct {
	Agents []Agent
	Raw    []byte
}

// DeleteResult reports a successful delete call.
type DeleteResult struct {
	AgentID string
	Raw     []byte
}
