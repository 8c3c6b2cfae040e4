package bootstrap

import (
	"context"
	"fmt"
	"testing"
	"time"

	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			Provider:    "openai",
			APIKey:      "sk-live-0123456789abcdef",
			Model:       "gpt-4o",
			Temperature: 0.75,
			MaxTokens:   512,
		},
		Spoonacular: config.SpoonacularConfig{
			APIKey:  "spoon-9876543210fedcba",
			BaseURL: "http://localhost:1",
			Timeout: time.Second,
		},
		Completion: config.CompletionConfig{
			MaxAttempts: 3,
			BackoffMin:  4 * time.Second,
			BackoffMax:  15 * time.Second,
			Multiplier:  time.Second,
			MemoSize:    8,
		},
	}
}

func TestNewFinderDoesNotLogCredentials(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	common.SetLogger(zap.New(core))
	t.Cleanup(func() { common.SetLogger(nil) })

	cfg := testConfig()
	finder, err := NewFinder(context.Background(), cfg)
	require.NoError(t, err)
	defer finder.Close()

	require.NotZero(t, logs.Len())
	for _, entry := range logs.All() {
		for key, value := range entry.ContextMap() {
			assert.NotContains(t, key, "key", entry.Message)
			text := fmt.Sprint(value)
			assert.NotContains(t, text, cfg.LLM.APIKey[:4])
			assert.NotContains(t, text, cfg.Spoonacular.APIKey[:4])
		}
	}
}

func TestNewFinderRejectsUnknownProvider(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.Provider = "nope"

	_, err := NewFinder(context.Background(), cfg)
	assert.Error(t, err)
}
