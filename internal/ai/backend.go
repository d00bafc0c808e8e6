package ai

import (
	"context"

	"github.com/pkg/errors"
	"google.golang.org/genai"
)

// ModelInfo is one entry of the remote model catalog.
type ModelInfo struct {
	Name    string
	Actions []string
}

// Backend is the remote generative service. GenAIBackend is the production
// implementation; tests substitute their own.
type Backend interface {
	ListModels(ctx context.Context) ([]ModelInfo, error)
	// GetModel reports whether the service accepts id.
	GetModel(ctx context.Context, id string) error
	Generate(ctx context.Context, modelID, prompt string) (*genai.GenerateContentResponse, error)
}

type GenAIBackend struct {
	client *genai.Client
}

// NewBackend returns a nil Backend when apiKey is empty so the resolver
// treats the credential as missing instead of failing startup.
func NewBackend(ctx context.Context, apiKey string) (Backend, error) {
	if apiKey == "" {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Google GenAI client")
	}
	return &GenAIBackend{client: client}, nil
}

func (b *GenAIBackend) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var models []ModelInfo
	for m, err := range b.client.Models.All(ctx) {
		if err != nil {
			return nil, errors.Wrap(err, "listing models")
		}
		models = append(models, ModelInfo{Name: m.Name, Actions: m.SupportedActions})
	}
	return models, nil
}

func (b *GenAIBackend) GetModel(ctx context.Context, id string) error {
	_, err := b.client.Models.Get(ctx, id, nil)
	return errors.Wrapf(err, "model %s", id)
}

func (b *GenAIBackend) Generate(ctx context.Context, modelID, prompt string) (*genai.GenerateContentResponse, error) {
	return b.client.Models.GenerateContent(ctx, modelID, genai.Text(prompt), nil)
}
