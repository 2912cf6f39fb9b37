// Package config resolves process configuration from the environment once at startup.
package config

import (
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/openchat-labs/bedrock-relay/common/env"
)

var (
	// BedrockRegion is the AWS region used for Bedrock runtime calls and as the
	// default region key for price lookups.
	BedrockRegion = env.String("BEDROCK_REGION", "us-east-1")

	// EnableCrossRegionInference routes invocations through region-prefixed
	// inference profiles when the (region, model) pair supports them.
	EnableCrossRegionInference = env.Bool("ENABLE_BEDROCK_CROSS_REGION_INFERENCE", false)

	// BedrockAccessKey and BedrockSecretKey optionally pin static credentials for
	// the Bedrock client. When empty the SDK's default credential chain is used.
	BedrockAccessKey = env.String("BEDROCK_ACCESS_KEY", "")
	BedrockSecretKey = env.String("BEDROCK_SECRET_KEY", "")

	// DebugEnabled toggles verbose structured logging when DEBUG=true.
	DebugEnabled = env.Bool("DEBUG", false)

	// DispatchMaxTries bounds each outbound Bedrock call, including the first
	// attempt. Only throttling errors consume additional tries.
	DispatchMaxTries = env.Int("BEDROCK_DISPATCH_MAX_TRIES", 3)
	// DispatchRetryDelay is the delay before the first retry; each subsequent
	// retry doubles it.
	DispatchRetryDelay = time.Second * time.Duration(env.Int("BEDROCK_DISPATCH_RETRY_DELAY", 60))
	// DispatchRetryJitter caps the uniform random jitter added to every retry delay.
	DispatchRetryJitter = time.Second * time.Duration(env.Int("BEDROCK_DISPATCH_RETRY_JITTER", 2))
)
