package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/euRhuanOLiveira/Driverpro/pkg"
	"google.golang.org/genai"
)

var ErrNotConfigured = errors.New("assistant api key is not configured")

// Gemini sends one prompt per call; there is no chat history.
type Gemini struct {
	slogger     *slog.Logger
	client      *genai.Client
	model       string
	temperature float32
	topP        float32
}

func NewGemini(ctx context.Context, slogger *slog.Logger, cfg *pkg.AssistantCfg) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Gemini{
		slogger:     slogger,
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
	}, nil
}

// Generate returns the model text, possibly empty.
func (g *Gemini) Generate(ctx context.Context, systemInstruction, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
		Temperature:       genai.Ptr(g.temperature),
		TopP:              genai.Ptr(g.topP),
	})
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Text())
	g.slogger.Debug("assistant answered", "action", "generate content", "model", g.model, "chars", len(text))
	return text, nil
}
