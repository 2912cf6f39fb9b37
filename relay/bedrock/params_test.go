package bedrock

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/require"

	"github.com/openchat-labs/bedrock-relay/relay/model"
)

func TestCompileNovaParams(t *testing.T) {
	t.Parallel()

	t.Run("nil params use defaults without stop sequences", func(t *testing.T) {
		t.Parallel()
		cfg, fields := compileNovaParams(nil)
		require.Equal(t, int32(2000), *cfg.MaxTokens)
		require.Equal(t, float32(0.6), *cfg.Temperature)
		require.Equal(t, float32(0.999), *cfg.TopP)
		require.Nil(t, cfg.StopSequences)

		// The nested inferenceConfig attribute is always present, even empty.
		require.Equal(t, map[string]any{"inferenceConfig": map[string]any{}}, fields)
	})

	t.Run("topK nests under inferenceConfig", func(t *testing.T) {
		t.Parallel()
		_, fields := compileNovaParams(&model.GenerationParams{TopK: aws.Int32(40)})
		require.Equal(t, map[string]any{"inferenceConfig": map[string]any{"topK": int32(40)}}, fields)
	})

	t.Run("topK above limit is capped", func(t *testing.T) {
		t.Parallel()
		_, fields := compileNovaParams(&model.GenerationParams{TopK: aws.Int32(500)})
		require.Equal(t, map[string]any{"inferenceConfig": map[string]any{"topK": int32(128)}}, fields)
	})

	t.Run("stop sequences are dropped even when requested", func(t *testing.T) {
		t.Parallel()
		cfg, _ := compileNovaParams(&model.GenerationParams{StopSequences: []string{"END"}})
		require.Nil(t, cfg.StopSequences)
	})
}

func TestCompileMistralParams(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		cfg, fields := compileMistralParams(nil)
		require.Equal(t, int32(4096), *cfg.MaxTokens)
		require.Equal(t, float32(0.5), *cfg.Temperature)
		require.Equal(t, float32(0.9), *cfg.TopP)
		require.Equal(t, []string{"[INST]", "[/INST]"}, cfg.StopSequences)
		// No default topK for Mistral.
		require.Nil(t, fields)
	})

	t.Run("topK is a flat additional field", func(t *testing.T) {
		t.Parallel()
		_, fields := compileMistralParams(&model.GenerationParams{TopK: aws.Int32(50)})
		require.Equal(t, map[string]any{"topK": int32(50)}, fields)
	})
}

func TestCompileLlamaAndDeepSeekParams(t *testing.T) {
	t.Parallel()

	cfg, fields := compileLlamaParams(nil)
	require.Equal(t, int32(512), *cfg.MaxTokens)
	require.Equal(t, float32(0.5), *cfg.Temperature)
	require.Equal(t, float32(0.9), *cfg.TopP)
	require.Nil(t, fields)

	cfg, fields = compileDeepSeekParams(nil)
	require.Equal(t, int32(2048), *cfg.MaxTokens)
	require.Equal(t, float32(0.6), *cfg.Temperature)
	require.Equal(t, float32(0.95), *cfg.TopP)
	require.Nil(t, fields)
}

func TestCompileStandardParams(t *testing.T) {
	t.Parallel()

	t.Run("defaults without reasoning", func(t *testing.T) {
		t.Parallel()
		cfg, fields := compileStandardParams(nil, false)
		require.Equal(t, int32(2000), *cfg.MaxTokens)
		require.Equal(t, float32(0.6), *cfg.Temperature)
		require.Equal(t, float32(0.999), *cfg.TopP)
		require.Equal(t, []string{"Human: ", "Assistant: "}, cfg.StopSequences)
		require.Equal(t, map[string]any{"top_k": int32(250)}, fields)
	})

	t.Run("overrides without reasoning", func(t *testing.T) {
		t.Parallel()
		cfg, fields := compileStandardParams(&model.GenerationParams{
			MaxTokens:     aws.Int32(4000),
			Temperature:   aws.Float32(0.2),
			TopK:          aws.Int32(10),
			StopSequences: []string{"STOP"},
		}, false)
		require.Equal(t, int32(4000), *cfg.MaxTokens)
		require.Equal(t, float32(0.2), *cfg.Temperature)
		require.Equal(t, []string{"STOP"}, cfg.StopSequences)
		require.Equal(t, map[string]any{"top_k": int32(10)}, fields)
	})

	t.Run("reasoning forces temperature and drops topK", func(t *testing.T) {
		t.Parallel()
		cfg, fields := compileStandardParams(&model.GenerationParams{
			MaxTokens:   aws.Int32(8000),
			Temperature: aws.Float32(0.2),
			TopK:        aws.Int32(10),
			Reasoning:   &model.ReasoningParams{BudgetTokens: 2048},
		}, true)
		require.Equal(t, float32(1.0), *cfg.Temperature)
		require.Equal(t, int32(8000), *cfg.MaxTokens)
		require.Equal(t, map[string]any{
			"thinking": map[string]any{
				"type":          "enabled",
				"budget_tokens": int32(2048),
			},
		}, fields)
	})

	t.Run("insufficient maxTokens is raised above the budget", func(t *testing.T) {
		t.Parallel()
		cfg, _ := compileStandardParams(&model.GenerationParams{
			MaxTokens: aws.Int32(1000),
			Reasoning: &model.ReasoningParams{BudgetTokens: 4096},
		}, true)
		require.Equal(t, int32(4096+1024), *cfg.MaxTokens)
	})

	t.Run("reasoning with nil params uses default budget", func(t *testing.T) {
		t.Parallel()
		cfg, fields := compileStandardParams(nil, true)
		require.Equal(t, int32(2000), *cfg.MaxTokens)
		require.Equal(t, float32(1.0), *cfg.Temperature)
		thinking, ok := fields["thinking"].(map[string]any)
		require.True(t, ok)
		require.Equal(t, int32(1024), thinking["budget_tokens"])
	})
}

func TestEmptyStopSequencesFallBack(t *testing.T) {
	t.Parallel()

	cfg, _ := compileStandardParams(&model.GenerationParams{StopSequences: []string{""}}, false)
	require.Equal(t, []string{"Human: ", "Assistant: "}, cfg.StopSequences)

	cfg, _ = compileStandardParams(&model.GenerationParams{StopSequences: []string{}}, false)
	require.Equal(t, []string{"Human: ", "Assistant: "}, cfg.StopSequences)
}
