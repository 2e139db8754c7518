package internal

import "github.com/Sudharsan1-5/SudharsanBuilds/internal/catalog"

const (
	defaultPageContext = "UnknownPage"
	anonymousUser      = "anonymous"

	roleUser      = "user"
	roleAssistant = "assistant"
)

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /ai-chatbot.
type ChatRequest struct {
	Message             string     `json:"message"`
	ConversationHistory []ChatTurn `json:"conversationHistory"`
	Context             string     `json:"context"`
	PageSummary         string     `json:"pageSummary"`
	UserID              string     `json:"userId"`
	EnableStreaming     bool       `json:"enableStreaming"`
}

type FunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// ChatResponse is either a text reply or a function call the client
// performs itself.
type ChatResponse struct {
	Success      bool              `json:"success"`
	FunctionCall *FunctionCall     `json:"functionCall,omitempty"`
	Message      string            `json:"message"`
	Role         string            `json:"role"`
	ServiceCards []catalog.Service `json:"serviceCards,omitempty"`
}
