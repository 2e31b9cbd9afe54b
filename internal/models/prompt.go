package models

// SystemPromptRequest is the body of a system prompt save.
type SystemPromptRequest struct {
	Prompt string `json:"prompt"`
}

// UploadResult is the data payload returned for a knowledge upload.
type UploadResult struct {
	Filename string `json:"filename"`
}
