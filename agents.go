package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"

	"github.com/muhammadolammi/profiletracer/internal/ai"
	"github.com/muhammadolammi/profiletracer/internal/logger"
)

func GetAgent(ctx context.Context, apiKey, modelID string) (agent.Agent, error) {
	model, err := gemini.NewModel(ctx, modelID, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %v", err)
	}

	customAgent, err := llmagent.New(llmagent.Config{
		Name:        agentName,
		Model:       model,
		Description: agentDescription,
		Instruction: prompt(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %v", err)
	}

	return customAgent, err
}

// Mascot answers chat messages through an ADK agent. Every reply runs in
// its own session that is deleted once the answer is read, so no history
// is carried between messages. The agent is built on first use with
// whatever model the resolver picks, so a missing or unreachable model only
// fails the replies, not startup.
type Mascot struct {
	apiKey   string
	resolver *ai.Resolver
	sessions session.Service

	mu     sync.Mutex
	runner *runner.Runner
	// live holds the sessions of replies still running, by user.
	live map[string]map[string]struct{}
}

func NewMascot(apiKey string, resolver *ai.Resolver) *Mascot {
	return &Mascot{
		apiKey:   apiKey,
		resolver: resolver,
		sessions: session.InMemoryService(),
		live:     map[string]map[string]struct{}{},
	}
}

// Reply sends prompt to the agent in a fresh session and returns its final
// answer.
func (m *Mascot) Reply(ctx context.Context, userID, prompt string) (string, error) {
	r, err := m.ensure(ctx)
	if err != nil {
		return "", err
	}

	return m.withSession(ctx, userID, func(sessionID string) (string, error) {
		stream := r.Run(ctx, userID, sessionID, &genai.Content{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		}, agent.RunConfig{})

		var output string
		for event, err := range stream {
			if err != nil {
				return "", ai.RemoteError(err)
			}
			if event != nil && event.IsFinalResponse() && event.Content != nil && len(event.Content.Parts) > 0 {
				output = event.Content.Parts[0].Text
			}
		}
		if output == "" {
			return "", fmt.Errorf("empty agent response")
		}
		return output, nil
	})
}

// Reset drops any session still open for userID. Replies keep no history,
// so a user without a running reply has nothing to reset.
func (m *Mascot) Reset(ctx context.Context, userID string) error {
	m.mu.Lock()
	open := m.live[userID]
	delete(m.live, userID)
	m.mu.Unlock()

	for sessionID := range open {
		if err := m.deleteSession(ctx, userID, sessionID); err != nil {
			return err
		}
	}
	return nil
}

// withSession creates a session for one run of fn and deletes it after fn
// returns.
func (m *Mascot) withSession(ctx context.Context, userID string, fn func(sessionID string) (string, error)) (string, error) {
	created, err := m.sessions.Create(ctx, &session.CreateRequest{
		AppName:   agentName,
		UserID:    userID,
		SessionID: uuid.NewString(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create session: %v", err)
	}
	sessionID := created.Session.ID()

	m.mu.Lock()
	if m.live[userID] == nil {
		m.live[userID] = map[string]struct{}{}
	}
	m.live[userID][sessionID] = struct{}{}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		_, open := m.live[userID][sessionID]
		delete(m.live[userID], sessionID)
		if len(m.live[userID]) == 0 {
			delete(m.live, userID)
		}
		m.mu.Unlock()

		// a Reset may already have removed it
		if !open {
			return
		}
		if err := m.deleteSession(ctx, userID, sessionID); err != nil {
			logger.G(ctx).WithError(err).WithField("session_id", sessionID).Warn("failed to delete mascot session")
		}
	}()

	return fn(sessionID)
}

func (m *Mascot) deleteSession(ctx context.Context, userID, sessionID string) error {
	err := m.sessions.Delete(ctx, &session.DeleteRequest{
		AppName:   agentName,
		UserID:    userID,
		SessionID: sessionID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete session: %v", err)
	}
	return nil
}

func (m *Mascot) ensure(ctx context.Context) (*runner.Runner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.runner != nil {
		return m.runner, nil
	}

	h, ok := m.resolver.Resolve(ctx)
	if !ok {
		return nil, ai.ErrModelUnavailable
	}
	mascot, err := GetAgent(ctx, m.apiKey, h.ID)
	if err != nil {
		return nil, err
	}
	r, err := runner.New(runner.Config{
		AppName:        agentName,
		Agent:          mascot,
		SessionService: m.sessions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %v", err)
	}
	m.runner = r
	logger.G(ctx).WithField("model", h.ID).Info("mascot agent ready")
	return m.runner, nil
}
