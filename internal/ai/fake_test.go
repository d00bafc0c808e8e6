package ai

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"google.golang.org/genai"
)

type fakeBackend struct {
	mu sync.Mutex

	models   []ModelInfo
	listErr  error
	accepted map[string]bool

	reply    string
	errs     []error // consumed one per Generate call before reply is used
	delay    time.Duration
	listHits int
	genHits  int
	lastID   string
}

func (f *fakeBackend) ListModels(ctx context.Context) ([]ModelInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listHits++
	return f.models, f.listErr
}

func (f *fakeBackend) GetModel(ctx context.Context, id string) error {
	if f.accepted[id] {
		return nil
	}
	return errors.Errorf("model %s not found", id)
}

func (f *fakeBackend) Generate(ctx context.Context, modelID, prompt string) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	f.genHits++
	f.lastID = modelID
	var err error
	if len(f.errs) > 0 {
		err, f.errs = f.errs[0], f.errs[1:]
	}
	delay := f.delay
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return nil, err
	}
	return textResponse(f.reply), nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: text}}},
		}},
	}
}
