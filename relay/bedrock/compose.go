package bedrock

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/openchat-labs/bedrock-relay/common/config"
	"github.com/openchat-labs/bedrock-relay/relay/model"
)

// ComposeInput collects everything needed to build one Converse request.
type ComposeInput struct {
	Messages     []model.Message
	Model        string
	Instructions []string
	Params       *model.GenerationParams

	Guardrail *model.Guardrails
	// GroundingSource is the guardrail grounding document; user text is only
	// wrapped in guard content when both a grounding threshold and a source
	// are present.
	GroundingSource types.GuardrailConverseContentBlock

	// Tools in registration order.
	Tools []model.Tool

	Stream          bool
	EnableReasoning bool
	// PromptCachingEnabled requests cache checkpoints; they are only inserted
	// at targets the model supports, and vetoed entirely when tools are
	// present but the model cannot cache them.
	PromptCachingEnabled bool

	// EnableCrossRegion and Region default to the process configuration when
	// left zero-valued.
	EnableCrossRegion bool
	Region            string
}

func cachePointBlock() *types.ContentBlockMemberCachePoint {
	return &types.ContentBlockMemberCachePoint{
		Value: types.CachePointBlock{Type: types.CachePointTypeDefault},
	}
}

// renderContent renders one content block into wire blocks, applying the
// family- and guardrail-dependent rules that the block itself cannot know.
func renderContent(c model.Content, role string, family Family, in *ComposeInput) []types.ContentBlock {
	// DeepSeek rejects reasoning echoes that carry no signature.
	if family == FamilyDeepSeek {
		if reasoning, ok := c.(*model.ReasoningContent); ok && reasoning.Signature == "" {
			return nil
		}
	}

	if text, ok := c.(*model.TextContent); ok {
		if role == model.RoleUser && in.Guardrail.GroundingEnabled() && in.GroundingSource != nil {
			return []types.ContentBlock{
				&types.ContentBlockMemberGuardContent{Value: in.GroundingSource},
				&types.ContentBlockMemberGuardContent{
					Value: &types.GuardrailConverseContentBlockMemberText{
						Value: types.GuardrailConverseTextBlock{
							Text:       aws.String(text.Body),
							Qualifiers: []types.GuardrailConverseContentQualifier{types.GuardrailConverseContentQualifierQuery},
						},
					},
				},
			}
		}
	}

	return c.ToConverseBlocks()
}

// systemBlocks builds the system prompt list. Nova, DeepSeek, Llama and
// Mistral take a single system block with all instructions joined; the
// standard family takes one block per non-empty instruction.
func systemBlocks(family Family, instructions []string) []types.SystemContentBlock {
	switch family {
	case FamilyNova, FamilyDeepSeek, FamilyLlama, FamilyMistral:
		nonEmpty := false
		for _, instruction := range instructions {
			if instruction != "" {
				nonEmpty = true
				break
			}
		}
		if !nonEmpty {
			return nil
		}
		return []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: strings.Join(instructions, "\n\n")},
		}
	default:
		var blocks []types.SystemContentBlock
		for _, instruction := range instructions {
			if instruction != "" {
				blocks = append(blocks, &types.SystemContentBlockMemberText{Value: instruction})
			}
		}
		return blocks
	}
}

// applyPromptCaching inserts cache checkpoints in place. Insertion order
// matters: one checkpoint after the system prompts, one at the end of each of
// the two most recent user messages, one after the tool list.
func applyPromptCaching(in *ComposeInput, system *[]types.SystemContentBlock, messages []types.Message, tools *[]types.Tool) {
	if len(*tools) > 0 && !SupportsPromptCaching(in.Model, CacheTargetTool) {
		// Tools the model cannot cache veto caching for the whole request.
		return
	}

	if SupportsPromptCaching(in.Model, CacheTargetSystem) && len(*system) > 0 {
		*system = append(*system, &types.SystemContentBlockMemberCachePoint{
			Value: types.CachePointBlock{Type: types.CachePointTypeDefault},
		})
	}

	if SupportsPromptCaching(in.Model, CacheTargetMessage) {
		marked := 0
		for i := len(messages) - 1; i >= 0 && marked < 2; i-- {
			if messages[i].Role != types.ConversationRoleUser {
				continue
			}
			messages[i].Content = append(messages[i].Content, cachePointBlock())
			marked++
		}
	}

	if SupportsPromptCaching(in.Model, CacheTargetTool) && len(*tools) > 0 {
		*tools = append(*tools, &types.ToolMemberCachePoint{
			Value: types.CachePointBlock{Type: types.CachePointTypeDefault},
		})
	}
}

// ComposeConverseRequest compiles a conversation into the Converse wire
// request for the model's family. Apart from an unknown model identifier at
// wire-id resolution, composition does not fail: invalid inputs degrade to
// defaults with logged warnings.
func ComposeConverseRequest(in ComposeInput) (*bedrockruntime.ConverseStreamInput, error) {
	enableCrossRegion := in.EnableCrossRegion || config.EnableCrossRegionInference
	region := in.Region
	if region == "" {
		region = config.BedrockRegion
	}

	wireID, err := ResolveWireID(in.Model, enableCrossRegion, region)
	if err != nil {
		return nil, err
	}

	family := FamilyOf(in.Model)

	messages := make([]types.Message, 0, len(in.Messages))
	for _, message := range in.Messages {
		if !model.IsConversationRole(message.Role) {
			continue
		}
		var blocks []types.ContentBlock
		for _, c := range message.Content {
			blocks = append(blocks, renderContent(c, message.Role, family, &in)...)
		}
		messages = append(messages, types.Message{
			Role:    types.ConversationRole(message.Role),
			Content: blocks,
		})
	}

	inferenceConfig, additionalFields := compileParams(family, in.Params, in.EnableReasoning)
	system := systemBlocks(family, in.Instructions)

	var toolSpecs []types.Tool
	for _, tool := range in.Tools {
		toolSpecs = append(toolSpecs, tool.ToConverseSpec())
	}

	if in.PromptCachingEnabled {
		applyPromptCaching(&in, &system, messages, &toolSpecs)
	}

	req := &bedrockruntime.ConverseStreamInput{
		ModelId:         aws.String(wireID),
		Messages:        messages,
		System:          system,
		InferenceConfig: inferenceConfig,
	}

	if additionalFields != nil {
		req.AdditionalModelRequestFields = document.NewLazyDocument(additionalFields)
	}

	if in.Guardrail.Enabled() {
		guardrailConfig := &types.GuardrailStreamConfiguration{
			GuardrailIdentifier: aws.String(in.Guardrail.GuardrailARN),
			GuardrailVersion:    aws.String(in.Guardrail.GuardrailVersion),
			Trace:               types.GuardrailTraceEnabled,
		}
		if in.Stream {
			// https://docs.aws.amazon.com/bedrock/latest/userguide/guardrails-streaming.html
			guardrailConfig.StreamProcessingMode = types.GuardrailStreamProcessingModeAsync
		}
		req.GuardrailConfig = guardrailConfig
	}

	// Callers must consult SupportsToolUse before supplying tools; some models
	// reject any toolConfig.
	if len(toolSpecs) > 0 {
		req.ToolConfig = &types.ToolConfiguration{Tools: toolSpecs}
	}

	return req, nil
}
