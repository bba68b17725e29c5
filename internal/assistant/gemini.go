// Package assistant answers free-form chat text with Gemini.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"alto_bot/pkg/logger"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const (
	DefaultModel             = "gemini-1.5-flash"
	DefaultSystemInstruction = "Kamu adalah ALTO, bot WhatsApp yang ramah dan membantu. Selalu balas dalam Bahasa Indonesia. Jangan gunakan format markdown."
)

var ErrEmptyResponse = errors.New("empty response from model")

type Config struct {
	APIKey            string
	Model             string
	SystemInstruction string
}

type chat interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Gemini keeps one chat session per conversation; the session carries the
// conversation history between turns.
type Gemini struct {
	client    *genai.Client
	startChat func() chat

	mu    sync.Mutex
	chats map[string]chat
}

func New(ctx context.Context, cfg Config) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is not set")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.SystemInstruction == "" {
		cfg.SystemInstruction = DefaultSystemInstruction
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(cfg.SystemInstruction)},
	}

	return &Gemini{
		client:    client,
		startChat: func() chat { return model.StartChat() },
		chats:     make(map[string]chat),
	}, nil
}

func (g *Gemini) session(conversationID string) chat {
	g.mu.Lock()
	defer g.mu.Unlock()

	cs, ok := g.chats[conversationID]
	if !ok {
		cs = g.startChat()
		g.chats[conversationID] = cs
	}
	return cs
}

func (g *Gemini) Complete(ctx context.Context, conversationID, text string) (string, error) {
	resp, err := g.session(conversationID).SendMessage(ctx, genai.Text(text))
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}

	answer := strings.TrimSpace(getText(resp))
	if answer == "" {
		return "", ErrEmptyResponse
	}
	return answer, nil
}

// Reset forgets the conversation; the next message starts a fresh session.
func (g *Gemini) Reset(conversationID string) {
	g.mu.Lock()
	delete(g.chats, conversationID)
	g.mu.Unlock()

	logger.Logger().Debug("assistant history cleared", zap.String("user_id", conversationID))
}

func (g *Gemini) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func getText(resp *genai.GenerateContentResponse) string {
	var text string
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				text += string(txt)
			}
		}
	}
	return text
}
