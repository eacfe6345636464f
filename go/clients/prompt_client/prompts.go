package prompt_client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mcdev12/teamquiz/go/clients"
	"github.com/mcdev12/teamquiz/go/internal/models"
)

// FetchPrompt asks the pool for the next prompt. Any transport error or
// non-success status is reported as models.ErrGatewayFailure.
func (c *PromptClient) FetchPrompt(ctx context.Context) (models.Prompt, error) {
	body, err := c.Get(ctx, PromptEndpoint)
	if err != nil {
		return models.Prompt{}, fmt.Errorf("failed to fetch prompt: %w: %w", models.ErrGatewayFailure, err)
	}

	var prompt models.Prompt
	if err := json.Unmarshal(body, &prompt); err != nil {
		return models.Prompt{}, fmt.Errorf("failed to unmarshal prompt: %w: %w", models.ErrGatewayFailure, err)
	}

	return prompt, nil
}

// SubmitPrompt adds a prompt to the pool. A 409 answer is reported as
// models.ErrDuplicate, every other failure as models.ErrGatewayFailure.
func (c *PromptClient) SubmitPrompt(ctx context.Context, text string) (models.SubmitPromptResponse, error) {
	payload, err := json.Marshal(models.SubmitPromptRequest{Prompt: text})
	if err != nil {
		return models.SubmitPromptResponse{}, fmt.Errorf("failed to marshal prompt: %w", err)
	}

	body, err := c.Post(ctx, PromptEndpoint, bytes.NewReader(payload))
	if err != nil {
		var statusErr *clients.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusConflict {
			return models.SubmitPromptResponse{}, fmt.Errorf("failed to submit prompt: %w", models.ErrDuplicate)
		}
		return models.SubmitPromptResponse{}, fmt.Errorf("failed to submit prompt: %w: %w", models.ErrGatewayFailure, err)
	}

	var resp models.SubmitPromptResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return models.SubmitPromptResponse{}, fmt.Errorf("failed to unmarshal submit response: %w: %w", models.ErrGatewayFailure, err)
	}

	return resp, nil
}
