package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-research/internal/config"
	"github.com/jonathan/candidate-research/internal/llm"
)

func TestBuildLLMClient_SingleClientByDefault(t *testing.T) {
	cfg := &config.Config{GeminiAPIKey: "test-key"}

	client, err := buildLLMClient(context.Background(), cfg)
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	_, ok := client.(*llm.FallbackClient)
	assert.False(t, ok)
}

func TestBuildLLMClient_FallbackModelWrapsClients(t *testing.T) {
	cfg := &config.Config{
		GeminiAPIKey:        "test-key",
		GeminiFallbackModel: "gemini-2.0-flash",
	}

	client, err := buildLLMClient(context.Background(), cfg)
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	_, ok := client.(*llm.FallbackClient)
	require.True(t, ok)

	// Tier routing still follows the primary configuration.
	assert.Equal(t, "gemini-2.5-flash", client.GetModel(llm.TierStandard))
}
