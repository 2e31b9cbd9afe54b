package api

import (
	"context"
	"errors"

	"kbchat/internal/models"
)

type ChatAPI struct {
	client Requester
}

func NewChatAPI(client Requester) *ChatAPI {
	return &ChatAPI{client: client}
}

// SendMessage posts the request unchanged. An empty prompt is left for the
// backend to reject.
func (a *ChatAPI) SendMessage(ctx context.Context, req models.ChatRequest) (*models.Envelope, error) {
	return a.client.Post(ctx, ChatPath, req)
}

// Ask sends prompt with optional history and returns the reply text.
func (a *ChatAPI) Ask(ctx context.Context, prompt string, history ...models.ChatMessage) (string, error) {
	env, err := a.SendMessage(ctx, models.ChatRequest{Prompt: prompt, History: history})
	if err != nil {
		return "", err
	}
	return AnswerText(env)
}

// AnswerText extracts the reply from a chat envelope. The backend sends either
// the text itself or a ChatAnswer object.
func AnswerText(env *models.Envelope) (string, error) {
	var text string
	if err := env.Decode(&text); err == nil {
		return text, nil
	}
	var answer models.ChatAnswer
	if err := env.Decode(&answer); err != nil {
		return "", err
	}
	if answer.Answer == "" {
		return "", errors.New("chat reply has no answer")
	}
	return answer.Answer, nil
}
