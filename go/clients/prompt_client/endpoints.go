package prompt_client

const (
	// API Endpoints
	PromptEndpoint = "/api/prompt"

	// Headers
	ContentTypeHeader = "Content-Type"
	ContentTypeJSON   = "application/json"
)
