package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sps-dashboard-api/internal/apperr"
)

func TestChatService_EmptyMessage(t *testing.T) {
	env := setupServices()

	_, err := env.services.Chat.Reply(context.Background(), "", nil)
	require.Error(t, err)
	require.True(t, apperr.Is(err, apperr.Validation))
}

func TestChatService_MissingAPIKey(t *testing.T) {
	env := setupServices()

	// No GEMINI_API_KEY in the test config; the client is built lazily so
	// this is the first point of failure.
	_, err := env.services.Chat.Reply(context.Background(), "How is line utilization calculated?", nil)
	require.Error(t, err)
	require.True(t, apperr.Is(err, apperr.Validation))
	require.Contains(t, err.Error(), "Gemini API key")
}
