package ai

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/muhammadolammi/profiletracer/internal/logger"
)

// FamilyMarker is the substring a catalog entry must contain to be preferred.
const FamilyMarker = "gemini"

// FallbackModels are tried in order when the catalog yields nothing usable.
var FallbackModels = []string{
	"gemini-2.5-flash",
	"gemini-2.5-pro",
	"gemini-2.0-flash",
	"gemini-1.5-flash",
	"gemini-1.5-pro",
}

// ModelHandle names the remote model every completion is sent to.
type ModelHandle struct {
	ID string
}

// Resolver discovers the model identifier once per process. The first
// successful resolution is cached; failures are not, so a later call can
// still succeed. Concurrent first calls may resolve redundantly and the
// first to finish wins.
type Resolver struct {
	backend  Backend
	pinned   string
	fallback []string
	cached   atomic.Pointer[ModelHandle]
}

// NewResolver builds a resolver over backend, which may be nil when no
// credential is configured. A non-empty pinned model skips the catalog.
func NewResolver(backend Backend, pinned string) *Resolver {
	return &Resolver{
		backend:  backend,
		pinned:   pinned,
		fallback: FallbackModels,
	}
}

func (r *Resolver) Resolve(ctx context.Context) (ModelHandle, bool) {
	if r.backend == nil {
		return ModelHandle{}, false
	}
	if h := r.cached.Load(); h != nil {
		return *h, true
	}

	id := r.pinned
	if id == "" {
		id = r.fromCatalog(ctx)
	}
	if id == "" {
		id = r.fromFallback(ctx)
	}
	if id == "" {
		return ModelHandle{}, false
	}

	h := &ModelHandle{ID: id}
	if !r.cached.CompareAndSwap(nil, h) {
		h = r.cached.Load()
	}
	logger.G(ctx).WithField("model", h.ID).Debug("resolved generative model")
	return *h, true
}

func (r *Resolver) fromCatalog(ctx context.Context) string {
	models, err := r.backend.ListModels(ctx)
	if err != nil {
		logger.G(ctx).WithError(err).Warn("listing models failed, trying fallback models")
		return ""
	}
	for _, m := range models {
		if strings.Contains(strings.ToLower(m.Name), FamilyMarker) && canGenerate(m) {
			return m.Name
		}
	}
	for _, m := range models {
		if canGenerate(m) {
			return m.Name
		}
	}
	return ""
}

func (r *Resolver) fromFallback(ctx context.Context) string {
	for _, id := range r.fallback {
		if err := r.backend.GetModel(ctx, id); err != nil {
			logger.G(ctx).WithError(err).WithField("model", id).Debug("fallback model rejected")
			continue
		}
		return id
	}
	return ""
}

func canGenerate(m ModelInfo) bool {
	for _, a := range m.Actions {
		if strings.Contains(strings.ToLower(a), "generate") {
			return true
		}
	}
	return false
}
