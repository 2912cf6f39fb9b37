// Package model defines the provider-independent conversation data model and its
// rendering into Bedrock Converse wire blocks.
package model

// Conversation roles forwarded to the model. Anything else (e.g. "system",
// "instruction") is filtered out before dispatch.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// IsConversationRole reports whether the role may appear in the Converse
// message list.
func IsConversationRole(role string) bool {
	return role == RoleUser || role == RoleAssistant
}

// Message is one turn of a conversation as stored by the persistence layer.
type Message struct {
	Role    string    `json:"role"`
	Content []Content `json:"content"`
}
