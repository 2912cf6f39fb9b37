package bedrock

import (
	"github.com/Laisky/zap"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/openchat-labs/bedrock-relay/common/logger"
	"github.com/openchat-labs/bedrock-relay/relay/model"
)

// novaTopKLimit is the largest topK Nova accepts; larger values trigger an
// "unexpected error" on the provider side and are capped instead.
const novaTopKLimit = 128

// reasoningMaxTokensMargin is added to the reasoning budget when the
// requested maxTokens does not leave room for a final answer.
const reasoningMaxTokensMargin = 1024

// generationDefaults is a per-family default table consulted for any
// generation parameter absent from the request.
type generationDefaults struct {
	MaxTokens     int32
	Temperature   float32
	TopP          float32
	TopK          int32
	StopSequences []string
	BudgetTokens  int32
}

var (
	// standardDefaults applies to Claude-like models and Nova.
	standardDefaults = generationDefaults{
		MaxTokens:     2000,
		Temperature:   0.6,
		TopP:          0.999,
		TopK:          250,
		StopSequences: []string{"Human: ", "Assistant: "},
		BudgetTokens:  1024,
	}
	deepseekDefaults = generationDefaults{
		MaxTokens:     2048,
		Temperature:   0.6,
		TopP:          0.95,
		StopSequences: []string{},
	}
	llamaDefaults = generationDefaults{
		MaxTokens:     512,
		Temperature:   0.5,
		TopP:          0.9,
		StopSequences: []string{},
	}
	mistralDefaults = generationDefaults{
		MaxTokens:     4096,
		Temperature:   0.5,
		TopP:          0.9,
		StopSequences: []string{"[INST]", "[/INST]"},
	}
)

func resolveInt32(override *int32, fallback int32) int32 {
	if override != nil {
		return *override
	}
	return fallback
}

func resolveFloat32(override *float32, fallback float32) float32 {
	if override != nil {
		return *override
	}
	return fallback
}

func resolveStopSequences(params *model.GenerationParams, fallback []string) []string {
	if s := params.EffectiveStopSequences(); s != nil {
		return s
	}
	return fallback
}

// baseInferenceConfig builds the inference configuration shared by every
// family from request overrides layered over the family defaults.
func baseInferenceConfig(params *model.GenerationParams, defaults generationDefaults, withStop bool) *types.InferenceConfiguration {
	var maxTokens, temperature, topP = defaults.MaxTokens, defaults.Temperature, defaults.TopP
	if params != nil {
		maxTokens = resolveInt32(params.MaxTokens, maxTokens)
		temperature = resolveFloat32(params.Temperature, temperature)
		topP = resolveFloat32(params.TopP, topP)
	}

	cfg := &types.InferenceConfiguration{
		MaxTokens:   aws.Int32(maxTokens),
		Temperature: aws.Float32(temperature),
		TopP:        aws.Float32(topP),
	}
	if withStop {
		cfg.StopSequences = resolveStopSequences(params, defaults.StopSequences)
	}
	return cfg
}

// compileNovaParams prepares the inference configuration for Amazon Nova
// models. Nova takes topK as an additional inference parameter nested under
// an inferenceConfig attribute of additionalModelRequestFields.
// https://docs.aws.amazon.com/nova/latest/userguide/getting-started-converse.html
func compileNovaParams(params *model.GenerationParams) (*types.InferenceConfiguration, map[string]any) {
	cfg := baseInferenceConfig(params, standardDefaults, false)

	nested := map[string]any{}
	if params != nil && params.TopK != nil {
		topK := *params.TopK
		if topK > novaTopKLimit {
			logger.Logger.Warn("nova topK exceeds provider limit, capping",
				zap.Int32("top_k", topK),
				zap.Int32("limit", novaTopKLimit))
			topK = novaTopKLimit
		}
		nested["topK"] = topK
	}

	return cfg, map[string]any{"inferenceConfig": nested}
}

// compileDeepSeekParams prepares the inference configuration for DeepSeek
// models; they take no additional model request fields.
func compileDeepSeekParams(params *model.GenerationParams) (*types.InferenceConfiguration, map[string]any) {
	return baseInferenceConfig(params, deepseekDefaults, true), nil
}

// compileLlamaParams prepares the inference configuration for Meta Llama
// models; they take no additional model request fields.
func compileLlamaParams(params *model.GenerationParams) (*types.InferenceConfiguration, map[string]any) {
	return baseInferenceConfig(params, llamaDefaults, true), nil
}

// compileMistralParams prepares the inference configuration for Mistral
// models. A requested topK becomes a flat additional field; there is no
// default topK for Mistral.
func compileMistralParams(params *model.GenerationParams) (*types.InferenceConfiguration, map[string]any) {
	cfg := baseInferenceConfig(params, mistralDefaults, true)

	if params != nil && params.TopK != nil {
		return cfg, map[string]any{"topK": *params.TopK}
	}
	return cfg, nil
}

// compileStandardParams prepares the inference configuration for
// Claude-like models. With reasoning enabled the provider requires
// temperature 1.0, forbids topK, and needs maxTokens strictly greater than
// the reasoning budget; an insufficient maxTokens is raised rather than
// rejected.
func compileStandardParams(params *model.GenerationParams, enableReasoning bool) (*types.InferenceConfiguration, map[string]any) {
	if !enableReasoning {
		cfg := baseInferenceConfig(params, standardDefaults, true)

		topK := standardDefaults.TopK
		if params != nil && params.TopK != nil {
			topK = *params.TopK
		}
		return cfg, map[string]any{"top_k": topK}
	}

	budgetTokens := standardDefaults.BudgetTokens
	if params != nil && params.Reasoning != nil {
		budgetTokens = params.Reasoning.BudgetTokens
	}
	maxTokens := standardDefaults.MaxTokens
	if params != nil {
		maxTokens = resolveInt32(params.MaxTokens, maxTokens)
	}
	if maxTokens <= budgetTokens {
		logger.Logger.Warn("maxTokens must exceed reasoning budget, raising",
			zap.Int32("max_tokens", maxTokens),
			zap.Int32("budget_tokens", budgetTokens),
			zap.Int32("raised_to", budgetTokens+reasoningMaxTokensMargin))
		maxTokens = budgetTokens + reasoningMaxTokensMargin
	}

	topP := standardDefaults.TopP
	if params != nil {
		topP = resolveFloat32(params.TopP, topP)
	}

	cfg := &types.InferenceConfiguration{
		MaxTokens: aws.Int32(maxTokens),
		// The provider requires temperature 1.0 when reasoning is enabled.
		Temperature:   aws.Float32(1.0),
		TopP:          aws.Float32(topP),
		StopSequences: resolveStopSequences(params, standardDefaults.StopSequences),
	}

	// topK cannot be used together with reasoning.
	fields := map[string]any{
		"thinking": map[string]any{
			"type":          "enabled",
			"budget_tokens": budgetTokens,
		},
	}
	return cfg, fields
}

// compileParams dispatches to the family-specific compiler. Compilation never
// fails: missing inputs degrade to family defaults and out-of-range values
// are corrected with a logged warning.
func compileParams(family Family, params *model.GenerationParams, enableReasoning bool) (*types.InferenceConfiguration, map[string]any) {
	switch family {
	case FamilyNova:
		return compileNovaParams(params)
	case FamilyDeepSeek:
		return compileDeepSeekParams(params)
	case FamilyLlama:
		return compileLlamaParams(params)
	case FamilyMistral:
		return compileMistralParams(params)
	default:
		return compileStandardParams(params, enableReasoning)
	}
}
