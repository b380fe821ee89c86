package model

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn is one turn of a caller-supplied conversation. The server never
// persists conversations; callers resend the history they care about.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
