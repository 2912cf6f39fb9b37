package bedrock

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/require"
)

func TestAsConverseInput(t *testing.T) {
	t.Parallel()

	stream := &bedrockruntime.ConverseStreamInput{
		ModelId: aws.String("amazon.nova-pro-v1:0"),
		Messages: []types.Message{
			{Role: types.ConversationRoleUser},
		},
		InferenceConfig: &types.InferenceConfiguration{MaxTokens: aws.Int32(100)},
		GuardrailConfig: &types.GuardrailStreamConfiguration{
			GuardrailIdentifier:  aws.String("arn:guardrail"),
			GuardrailVersion:     aws.String("1"),
			Trace:                types.GuardrailTraceEnabled,
			StreamProcessingMode: types.GuardrailStreamProcessingModeAsync,
		},
	}

	in := asConverseInput(stream)
	require.Equal(t, stream.ModelId, in.ModelId)
	require.Equal(t, stream.Messages, in.Messages)
	require.Equal(t, stream.InferenceConfig, in.InferenceConfig)
	require.NotNil(t, in.GuardrailConfig)
	require.Equal(t, "arn:guardrail", aws.ToString(in.GuardrailConfig.GuardrailIdentifier))
	require.Equal(t, types.GuardrailTraceEnabled, in.GuardrailConfig.Trace)

	t.Run("no guardrail stays nil", func(t *testing.T) {
		t.Parallel()
		in := asConverseInput(&bedrockruntime.ConverseStreamInput{ModelId: aws.String("x")})
		require.Nil(t, in.GuardrailConfig)
	})
}
