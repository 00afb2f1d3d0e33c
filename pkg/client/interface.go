package client

import "context"

// VisionClient sends an image together with a prompt to a vision model and
// returns its plain-text answer.
type VisionClient interface {
	Describe(ctx context.Context, model, prompt, imgB64 string) (string, error)
}
