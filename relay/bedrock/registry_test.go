package bedrock

import (
	"testing"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/require"
)

func TestFamilyOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		model string
		want  Family
	}{
		{"amazon-nova-pro", FamilyNova},
		{"amazon-nova-micro", FamilyNova},
		{"deepseek-r1", FamilyDeepSeek},
		{"llama3-3-70b-instruct", FamilyLlama},
		{"llama3-2-1b-instruct", FamilyLlama},
		{"mistral-large-2", FamilyMistral},
		{"mixtral-8x7b-instruct", FamilyMistral},
		{"claude-v4-sonnet", FamilyStandard},
		{"claude-v3-haiku", FamilyStandard},
		{"", FamilyStandard},
		{"some-unknown-model", FamilyStandard},
	}
	for _, tc := range cases {
		t.Run(tc.model, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, FamilyOf(tc.model))
		})
	}
}

func TestSupportsToolUse(t *testing.T) {
	t.Parallel()

	require.True(t, SupportsToolUse("claude-v4-sonnet"))
	require.True(t, SupportsToolUse("amazon-nova-pro"))
	require.True(t, SupportsToolUse("llama3-3-70b-instruct"))

	require.False(t, SupportsToolUse("deepseek-r1"))
	require.False(t, SupportsToolUse("llama3-2-1b-instruct"))
	require.False(t, SupportsToolUse("llama3-2-3b-instruct"))
	require.False(t, SupportsToolUse(""))
}

func TestSupportsPromptCaching(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		model  string
		target CacheTarget
		want   bool
	}{
		{"claude system", "claude-v3.7-sonnet", CacheTargetSystem, true},
		{"claude message", "claude-v4-opus", CacheTargetMessage, true},
		{"claude tool", "claude-v3.5-haiku", CacheTargetTool, true},
		{"nova system", "amazon-nova-pro", CacheTargetSystem, true},
		{"nova message", "amazon-nova-lite", CacheTargetMessage, true},
		{"nova tool excluded", "amazon-nova-pro", CacheTargetTool, false},
		{"old claude", "claude-v3-haiku", CacheTargetSystem, false},
		{"llama", "llama3-3-70b-instruct", CacheTargetMessage, false},
		{"mistral tool", "mistral-large", CacheTargetTool, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, SupportsPromptCaching(tc.model, tc.target))
		})
	}
}

func TestResolveWireID(t *testing.T) {
	t.Parallel()

	t.Run("cross-region disabled returns base id", func(t *testing.T) {
		t.Parallel()
		id, err := ResolveWireID("claude-v4-sonnet", false, "us-east-1")
		require.NoError(t, err)
		require.Equal(t, "anthropic.claude-sonnet-4-20250514-v1:0", id)
	})

	t.Run("supported pair gets area prefix", func(t *testing.T) {
		t.Parallel()
		id, err := ResolveWireID("claude-v4-sonnet", true, "us-east-1")
		require.NoError(t, err)
		require.Equal(t, "us.anthropic.claude-sonnet-4-20250514-v1:0", id)

		id, err = ResolveWireID("amazon-nova-pro", true, "eu-central-1")
		require.NoError(t, err)
		require.Equal(t, "eu.amazon.nova-pro-v1:0", id)

		id, err = ResolveWireID("claude-v3.5-sonnet-v2", true, "ap-northeast-1")
		require.NoError(t, err)
		require.Equal(t, "apac.anthropic.claude-3-5-sonnet-20241022-v2:0", id)
	})

	t.Run("unknown region falls back to base id", func(t *testing.T) {
		t.Parallel()
		id, err := ResolveWireID("claude-v4-sonnet", true, "sa-east-1")
		require.NoError(t, err)
		require.Equal(t, "anthropic.claude-sonnet-4-20250514-v1:0", id)
	})

	t.Run("unsupported model in region falls back to base id", func(t *testing.T) {
		t.Parallel()
		// Opus is not routable from eu-central-1.
		id, err := ResolveWireID("claude-v4-opus", true, "eu-central-1")
		require.NoError(t, err)
		require.Equal(t, "anthropic.claude-opus-4-20250514-v1:0", id)
	})

	t.Run("unknown model errors", func(t *testing.T) {
		t.Parallel()
		_, err := ResolveWireID("gpt-4o", false, "us-east-1")
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrUnsupportedModel))
	})
}

func TestIsMediaGenerationModel(t *testing.T) {
	t.Parallel()

	require.True(t, IsNovaCanvasModel("amazon-nova-canvas"))
	require.True(t, IsNovaReelModel("amazon-nova-reel"))
	require.True(t, IsMediaGenerationModel("amazon-nova-canvas"))
	require.True(t, IsMediaGenerationModel("amazon-nova-reel"))
	require.False(t, IsMediaGenerationModel("amazon-nova-pro"))
	require.False(t, IsMediaGenerationModel("claude-v4-sonnet"))
}
