// Package model defines data structures for the storefront service.
package model

// Role represents the role of a conversation message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// ChatMessage is a single conversation message as exchanged with clients.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ToolCall is a model-issued request to invoke a named function.
// Arguments is the raw JSON-encoded argument object as the model emitted it.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolFunction carries the name and raw arguments of a tool call.
type ToolFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ChatRequest is the request body for a chat turn.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// AssistantReply is the orchestrator's external-facing result. The UI keys
// off OriginalToolCalls to render product cards or trigger cart/checkout
// side effects.
type AssistantReply struct {
	Role              Role       `json:"role"`
	Content           string     `json:"content"`
	OriginalToolCalls []ToolCall `json:"original_tool_calls,omitempty"`
}
