package bedrock

import (
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// asConverseInput adapts a compiled streaming request for the non-streaming
// Converse operation. The two inputs share every field except the guardrail
// configuration, whose streaming variant carries the stream processing mode.
func asConverseInput(req *bedrockruntime.ConverseStreamInput) *bedrockruntime.ConverseInput {
	in := &bedrockruntime.ConverseInput{
		ModelId:                      req.ModelId,
		Messages:                     req.Messages,
		System:                       req.System,
		InferenceConfig:              req.InferenceConfig,
		ToolConfig:                   req.ToolConfig,
		AdditionalModelRequestFields: req.AdditionalModelRequestFields,
	}
	if req.GuardrailConfig != nil {
		in.GuardrailConfig = &types.GuardrailConfiguration{
			GuardrailIdentifier: req.GuardrailConfig.GuardrailIdentifier,
			GuardrailVersion:    req.GuardrailConfig.GuardrailVersion,
			Trace:               req.GuardrailConfig.Trace,
		}
	}
	return in
}
