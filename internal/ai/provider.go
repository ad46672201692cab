package ai

import "context"

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one prior or new conversation turn.
type Turn struct {
	Role Role
	Text string
}

// ChatRequest is the transport-agnostic generation request.
type ChatRequest struct {
	SystemInstruction string
	Turns             []Turn
	Temperature       float32
	MaxOutputTokens   int
}

// Provider is implemented by every generation backend. Chat returns the
// reply text; an empty string is a valid provider answer and is judged by
// the gateway.
type Provider interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

// chatRole maps turn roles onto OpenAI-style message roles.
func chatRole(r Role) string {
	if r == RoleModel {
		return "assistant"
	}
	return "user"
}
