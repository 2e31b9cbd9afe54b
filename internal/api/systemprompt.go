package api

import (
	"context"

	"kbchat/internal/models"
)

// SystemPromptAPI reads and writes the backend's single, global system prompt.
type SystemPromptAPI struct {
	client Requester
}

func NewSystemPromptAPI(client Requester) *SystemPromptAPI {
	return &SystemPromptAPI{client: client}
}

func (a *SystemPromptAPI) SavePrompt(ctx context.Context, prompt string) (*models.Envelope, error) {
	return a.client.Post(ctx, SystemPromptPath, models.SystemPromptRequest{Prompt: prompt})
}

func (a *SystemPromptAPI) GetPrompt(ctx context.Context) (*models.Envelope, error) {
	return a.client.Get(ctx, SystemPromptPath)
}

// Current returns the stored prompt text. The backend may answer with the
// string itself or with {"prompt": "..."}.
func (a *SystemPromptAPI) Current(ctx context.Context) (string, error) {
	env, err := a.GetPrompt(ctx)
	if err != nil {
		return "", err
	}
	return env.Text("prompt")
}
