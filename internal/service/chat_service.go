package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/sps-dashboard-api/internal/apperr"
	"github.com/sps-dashboard-api/internal/config"
	"github.com/sps-dashboard-api/internal/models"
)

// systemPrompt primes the assistant with the dashboard's domain language.
const systemPrompt = `You are an AI assistant for a manufacturing performance dashboard that tracks yearly product metrics grouped into production lines.

## Key Metrics Explained:
- **DT (Design Time)**: time spent in the design phase
- **UT (Useful Time)**: productive time spent on the product
- **NVA (Non-Value Added)**: time spent on non-productive activities
- **OT (Overall Time)**: total time spent
- **KD, KE, KER, KSR**: efficiency ratios, stored as fractions and displayed as percentages
- **TSR**: a free-text reference code

## Features:
- Per-line dashboards with per-year product metrics
- Line assignment controls who may edit which line's data; everyone can view
- JSON backup export/restore and Excel bulk import for admins
- Header image customization and per-year product management

Be helpful, concise, and provide specific guidance about using the dashboard. Keep responses brief and friendly.`

const assistantAck = "I understand! I'm ready to help with dashboard questions."

// chatService is the concrete implementation of ChatService. The Gemini
// client is created on first use so the server can start without an API key
// configured.
type chatService struct {
	cfg *config.ChatConfig
	log zerolog.Logger

	once      sync.Once
	client    *genai.Client
	clientErr error
}

// newChatService creates a new ChatService
func newChatService(cfg *config.ChatConfig, log zerolog.Logger) *chatService {
	return &chatService{
		cfg: cfg,
		log: log.With().Str("service", "chat").Logger(),
	}
}

func (s *chatService) getClient(ctx context.Context) (*genai.Client, error) {
	s.once.Do(func() {
		if s.cfg.GeminiAPIKey == "" {
			s.clientErr = apperr.New(apperr.Validation, "Gemini API key not configured")
			return
		}
		s.client, s.clientErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey: s.cfg.GeminiAPIKey,
		})
	})
	return s.client, s.clientErr
}

// Reply sends the conversation to Gemini and returns the generated text
func (s *chatService) Reply(ctx context.Context, message string, history []models.ChatMessage) (string, error) {
	if message == "" {
		return "", apperr.New(apperr.Validation, "message is required")
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return "", err
	}

	contents := []*genai.Content{
		genai.NewContentFromText(systemPrompt, genai.RoleUser),
		genai.NewContentFromText(assistantAck, genai.RoleModel),
	}
	for _, msg := range history {
		if msg.Content == "" {
			continue
		}
		var role genai.Role = genai.RoleUser
		if msg.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	resp, err := client.Models.GenerateContent(ctx, s.cfg.Model, contents, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("Gemini request failed")
		return "", err
	}

	text := resp.Text()
	if text == "" {
		text = "Sorry, I couldn't generate a response."
	}
	return text, nil
}
