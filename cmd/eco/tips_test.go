package main

import (
	"testing"

	"github.com/Veraticus/eco-ledger/internal/common"
	"github.com/Veraticus/eco-ledger/internal/model"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTipsCmd(t *testing.T) {
	setupTestEnv(t)
	_, err := runCommand(t, addCmd(), "", "transport", "15", "km")
	require.NoError(t, err)

	useExtractor(t, &fakeExtractor{tips: []model.EcoTip{
		{Title: "Take the train", Impact: model.TipImpactHigh, Category: model.CategoryTransport},
	}})

	out, err := runCommand(t, tipsCmd(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "Take the train")
}

func TestTipsCmd_NoSuggestions(t *testing.T) {
	setupTestEnv(t)
	_ = sessionRecords(t)
	useExtractor(t, &fakeExtractor{tipsErr: common.ErrNoSuggestions})

	out, err := runCommand(t, tipsCmd(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "No suggestions right now")
}

func TestLLMConfig(t *testing.T) {
	setupTestEnv(t)
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := llmConfig()
	require.ErrorIs(t, err, common.ErrMissingConfig)

	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg, err := llmConfig()
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, 3, cfg.MaxRetries)

	viper.Set("llm.provider", "anthropic")
	viper.Set("llm.anthropic_api_key", "ak-test")
	cfg, err = llmConfig()
	require.NoError(t, err)
	assert.Equal(t, "ak-test", cfg.APIKey)

	viper.Set("llm.provider", "mystery")
	_, err = llmConfig()
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}
