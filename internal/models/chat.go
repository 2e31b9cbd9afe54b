package models

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest is the payload sent to the chat endpoint. It is forwarded as-is.
type ChatRequest struct {
	Prompt  string        `json:"prompt"`
	History []ChatMessage `json:"history,omitempty"`
	TopK    int           `json:"top_k,omitempty"`
}

// ChatAnswer is the data payload the backend returns for a chat call.
type ChatAnswer struct {
	Answer string `json:"answer"`
}
