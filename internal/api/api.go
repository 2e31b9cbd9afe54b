// Package api holds the endpoint façades used by callers. Each operation is a
// single round trip through the shared apiclient.Client.
package api

import (
	"context"

	"kbchat/internal/apiclient"
	"kbchat/internal/models"
)

const (
	ChatPath         = "/chat/"
	SystemPromptPath = "/system-prompt/"
	UploadPath       = "/uploadfile/"
)

// Requester is the part of apiclient.Client the façades need.
type Requester interface {
	Get(ctx context.Context, path string, opts ...apiclient.CallOption) (*models.Envelope, error)
	Post(ctx context.Context, path string, body interface{}, opts ...apiclient.CallOption) (*models.Envelope, error)
}

// API groups every façade behind one value.
type API struct {
	Chat         *ChatAPI
	Upload       *UploadAPI
	SystemPrompt *SystemPromptAPI
}

func New(client Requester) *API {
	return &API{
		Chat:         NewChatAPI(client),
		Upload:       NewUploadAPI(client),
		SystemPrompt: NewSystemPromptAPI(client),
	}
}
