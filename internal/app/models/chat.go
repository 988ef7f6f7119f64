package models

// Chat roles
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatTurn is a single message in the course chat history. History is an
// append-only sequence kept for the lifetime of one course-detail view and
// never persisted.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /chatbot/chat.
type ChatRequest struct {
	CourseID    int64   `json:"course_id"`
	MaterialIDs []int64 `json:"material_ids"`
	Message     string  `json:"message"`
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	Response string `json:"response"`
}
