package bedrock

import (
	"context"

	"github.com/Laisky/errors/v2"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/openchat-labs/bedrock-relay/common/config"
)

// Runtime is the slice of the Bedrock runtime client the dispatcher uses.
// *bedrockruntime.Client satisfies it; tests substitute fakes.
type Runtime interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
	ConverseStream(ctx context.Context, params *bedrockruntime.ConverseStreamInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseStreamOutput, error)
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

var _ Runtime = (*bedrockruntime.Client)(nil)

// NewRuntimeClient builds the long-lived Bedrock runtime client. It is safe
// for concurrent use and is expected to be constructed once at process start
// and passed into every Dispatcher.
func NewRuntimeClient(ctx context.Context) (*bedrockruntime.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(config.BedrockRegion),
	}
	if config.BedrockAccessKey != "" && config.BedrockSecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.BedrockAccessKey, config.BedrockSecretKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}

	return bedrockruntime.NewFromConfig(cfg), nil
}
