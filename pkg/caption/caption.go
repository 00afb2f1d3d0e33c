// Package caption asks a vision model for a scene description that can be
// used as the prompt when the expanded canvas is outpainted.
package caption

import (
	"context"
	"fmt"
	"image"
	"regexp"
	"strings"

	"github.com/menta2k/zoomout/pkg/client"
	"github.com/menta2k/zoomout/pkg/processing"
)

// DefaultPrompt asks for a prompt that describes the scene, not the subject
// framing, so the generated border continues the picture.
const DefaultPrompt = `You write prompts for an image outpainting model.

Describe the scene in this image as one comma-separated prompt of at most 40 words:
setting, lighting, style, dominant colors, and what plausibly continues beyond the frame.
Do not mention borders, frames, cropping or the word "image".
Return the prompt only. No quotes, no markdown, no explanations.`

// DefaultMaxDim bounds the long side of the image sent to the model.
const DefaultMaxDim = 1024

var (
	reSpaces = regexp.MustCompile(`\s+`)
	reLabel  = regexp.MustCompile(`(?i)^(prompt|caption|description)\s*:\s*`)
)

// Captioner produces outpainting prompts.
type Captioner struct {
	client    client.VisionClient
	processor *processing.Processor
	model     string
	prompt    string
	maxDim    int
}

// New creates a Captioner for the given client and model.
func New(c client.VisionClient, model string) *Captioner {
	return &Captioner{
		client:    c,
		processor: processing.NewProcessor(),
		model:     model,
		prompt:    DefaultPrompt,
		maxDim:    DefaultMaxDim,
	}
}

// SetPrompt overrides the instruction sent with the image.
func (c *Captioner) SetPrompt(prompt string) {
	if strings.TrimSpace(prompt) != "" {
		c.prompt = prompt
	}
}

// Suggest describes img and returns a cleaned single-line prompt.
func (c *Captioner) Suggest(ctx context.Context, img image.Image) (string, error) {
	imgB64, err := c.processor.EncodeBase64(img, "jpg", c.maxDim, 85)
	if err != nil {
		return "", fmt.Errorf("failed to encode image for captioning: %w", err)
	}

	raw, err := c.client.Describe(ctx, c.model, c.prompt, imgB64)
	if err != nil {
		return "", fmt.Errorf("caption request failed: %w", err)
	}

	text := Normalize(raw)
	if text == "" {
		return "", fmt.Errorf("model %s returned an empty caption", c.model)
	}
	return text, nil
}

// Normalize strips code fences, labels and quotes from a model answer and
// collapses it to one line.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if i := strings.Index(s, "\n"); i >= 0 {
			s = s[i+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		if j := strings.LastIndex(s, "```"); j >= 0 {
			s = s[:j]
		}
	}

	s = reSpaces.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = reLabel.ReplaceAllString(s, "")
	s = strings.Trim(s, "\"'` ")
	return strings.TrimRight(s, ". ")
}
