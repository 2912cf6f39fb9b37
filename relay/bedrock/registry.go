// Package bedrock compiles generic conversations into Bedrock Converse wire
// requests and dispatches them with throttle-aware retries.
package bedrock

import (
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"

	"github.com/openchat-labs/bedrock-relay/common/logger"
)

// Family groups models that share a wire parameter shape and capability set.
type Family int

const (
	// FamilyStandard covers Claude-like reasoning-capable models and is the
	// fallback for anything not matched below.
	FamilyStandard Family = iota
	FamilyNova
	FamilyDeepSeek
	FamilyLlama
	FamilyMistral
)

func (f Family) String() string {
	switch f {
	case FamilyNova:
		return "nova"
	case FamilyDeepSeek:
		return "deepseek"
	case FamilyLlama:
		return "llama"
	case FamilyMistral:
		return "mistral"
	default:
		return "standard"
	}
}

// FamilyOf classifies a model identifier. Match rules run in a fixed priority
// order (Nova, DeepSeek, Llama, Mistral) with Standard as the fallback;
// exactly one family matches any given identifier.
func FamilyOf(model string) Family {
	switch {
	case strings.Contains(model, "amazon-nova"):
		return FamilyNova
	case strings.Contains(model, "deepseek"):
		return FamilyDeepSeek
	case strings.Contains(model, "llama"):
		return FamilyLlama
	case strings.Contains(model, "mistral"):
		return FamilyMistral
	default:
		return FamilyStandard
	}
}

// IsNovaCanvasModel reports whether the model is Amazon Nova Canvas (image generation).
func IsNovaCanvasModel(model string) bool {
	return model == "amazon-nova-canvas"
}

// IsNovaReelModel reports whether the model is Amazon Nova Reel (video generation).
func IsNovaReelModel(model string) bool {
	return model == "amazon-nova-reel"
}

// IsMediaGenerationModel reports whether the model generates images or video
// rather than text.
func IsMediaGenerationModel(model string) bool {
	return IsNovaCanvasModel(model) || IsNovaReelModel(model)
}

// toolUseDenylist enumerates models announced by the provider as not
// supporting tool use. Capability boundaries are provider-announced, so this
// is an explicit list rather than a derived rule.
var toolUseDenylist = map[string]struct{}{
	"deepseek-r1":          {},
	"llama3-2-1b-instruct": {},
	"llama3-2-3b-instruct": {},
	"":                     {},
}

// SupportsToolUse reports whether the model accepts a toolConfig.
func SupportsToolUse(model string) bool {
	_, denied := toolUseDenylist[model]
	return !denied
}

// CacheTarget identifies where a prompt-cache checkpoint may be inserted.
type CacheTarget string

const (
	CacheTargetSystem  CacheTarget = "system"
	CacheTargetMessage CacheTarget = "message"
	CacheTargetTool    CacheTarget = "tool"
)

var toolCachingAllowlist = map[string]struct{}{
	"claude-v4-opus":        {},
	"claude-v4-sonnet":      {},
	"claude-v3.7-sonnet":    {},
	"claude-v3.5-sonnet-v2": {},
	"claude-v3.5-haiku":     {},
}

var promptCachingAllowlist = map[string]struct{}{
	"claude-v4-opus":        {},
	"claude-v4-sonnet":      {},
	"claude-v3.7-sonnet":    {},
	"claude-v3.5-sonnet-v2": {},
	"claude-v3.5-haiku":     {},
	"amazon-nova-pro":       {},
	"amazon-nova-lite":      {},
	"amazon-nova-micro":     {},
}

// SupportsPromptCaching reports whether the model accepts cache checkpoints at
// the given target. Tool-target caching has a narrower allowlist than
// system/message caching.
func SupportsPromptCaching(model string, target CacheTarget) bool {
	if target == CacheTargetTool {
		_, ok := toolCachingAllowlist[model]
		return ok
	}
	_, ok := promptCachingAllowlist[model]
	return ok
}

// ErrUnsupportedModel indicates the capability tables have no wire id for a
// model; the registry is out of sync with the set of enabled models.
var ErrUnsupportedModel = errors.New("unsupported model")

// baseWireIDs maps model identifiers to Bedrock model ids.
// Ref: https://docs.aws.amazon.com/bedrock/latest/userguide/model-ids-arns.html
var baseWireIDs = map[string]string{
	"claude-v4-opus":        "anthropic.claude-opus-4-20250514-v1:0",
	"claude-v4-sonnet":      "anthropic.claude-sonnet-4-20250514-v1:0",
	"claude-v3-haiku":       "anthropic.claude-3-haiku-20240307-v1:0",
	"claude-v3-opus":        "anthropic.claude-3-opus-20240229-v1:0",
	"claude-v3.5-sonnet":    "anthropic.claude-3-5-sonnet-20240620-v1:0",
	"claude-v3.5-sonnet-v2": "anthropic.claude-3-5-sonnet-20241022-v2:0",
	"claude-v3.7-sonnet":    "anthropic.claude-3-7-sonnet-20250219-v1:0",
	"claude-v3.5-haiku":     "anthropic.claude-3-5-haiku-20241022-v1:0",

	"mistral-7b-instruct":   "mistral.mistral-7b-instruct-v0:2",
	"mixtral-8x7b-instruct": "mistral.mixtral-8x7b-instruct-v0:1",
	"mistral-large":         "mistral.mistral-large-2402-v1:0",
	"mistral-large-2":       "mistral.mistral-large-2407-v1:0",

	"amazon-nova-pro":   "amazon.nova-pro-v1:0",
	"amazon-nova-lite":  "amazon.nova-lite-v1:0",
	"amazon-nova-micro": "amazon.nova-micro-v1:0",

	// Media generation
	"amazon-nova-canvas": "amazon.nova-canvas-v1:0",
	"amazon-nova-reel":   "amazon.nova-reel-v1:0",

	"deepseek-r1": "deepseek.r1-v1:0",

	"llama3-3-70b-instruct": "meta.llama3-3-70b-instruct-v1:0",
	"llama3-2-1b-instruct":  "meta.llama3-2-1b-instruct-v1:0",
	"llama3-2-3b-instruct":  "meta.llama3-2-3b-instruct-v1:0",
	"llama3-2-11b-instruct": "meta.llama3-2-11b-instruct-v1:0",
	"llama3-2-90b-instruct": "meta.llama3-2-90b-instruct-v1:0",
}

type crossRegionProfile struct {
	area   string
	models map[string]struct{}
}

func modelSet(models ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(models))
	for _, m := range models {
		set[m] = struct{}{}
	}
	return set
}

// crossRegionProfiles lists, per source region, the area code used as the
// inference profile prefix and the models that support cross-region routing
// from that region.
// Ref: https://docs.aws.amazon.com/bedrock/latest/userguide/inference-profiles-support.html
var crossRegionProfiles = map[string]crossRegionProfile{
	"us-east-1": {area: "us", models: modelSet(
		"amazon-nova-lite", "amazon-nova-micro", "amazon-nova-pro",
		"claude-v4-opus", "claude-v4-sonnet",
		"claude-v3-haiku", "claude-v3-opus",
		"claude-v3.5-haiku", "claude-v3.5-sonnet", "claude-v3.5-sonnet-v2", "claude-v3.7-sonnet",
		"deepseek-r1",
		"llama3-3-70b-instruct", "llama3-2-1b-instruct", "llama3-2-3b-instruct",
		"llama3-2-11b-instruct", "llama3-2-90b-instruct",
	)},
	"us-east-2": {area: "us", models: modelSet(
		"amazon-nova-lite", "amazon-nova-micro", "amazon-nova-pro",
		"claude-v4-opus", "claude-v4-sonnet",
		"claude-v3-haiku",
		"claude-v3.5-haiku", "claude-v3.5-sonnet", "claude-v3.5-sonnet-v2", "claude-v3.7-sonnet",
		"deepseek-r1",
		"llama3-3-70b-instruct", "llama3-2-1b-instruct", "llama3-2-3b-instruct",
		"llama3-2-11b-instruct", "llama3-2-90b-instruct",
	)},
	"us-west-2": {area: "us", models: modelSet(
		"amazon-nova-lite", "amazon-nova-micro", "amazon-nova-pro",
		"claude-v4-opus", "claude-v4-sonnet",
		"claude-v3-haiku", "claude-v3-opus",
		"claude-v3.5-haiku", "claude-v3.5-sonnet", "claude-v3.5-sonnet-v2", "claude-v3.7-sonnet",
		"deepseek-r1",
		"llama3-3-70b-instruct", "llama3-2-1b-instruct", "llama3-2-3b-instruct",
		"llama3-2-11b-instruct", "llama3-2-90b-instruct",
	)},
	"eu-central-1": {area: "eu", models: modelSet(
		"amazon-nova-lite", "amazon-nova-micro", "amazon-nova-pro",
		"claude-v4-sonnet", "claude-v3-haiku", "claude-v3.5-sonnet", "claude-v3.7-sonnet",
		"llama3-2-1b-instruct", "llama3-2-3b-instruct",
	)},
	"eu-west-1": {area: "eu", models: modelSet(
		"amazon-nova-lite", "amazon-nova-micro", "amazon-nova-pro",
		"claude-v4-sonnet", "claude-v3-haiku", "claude-v3.5-sonnet", "claude-v3.7-sonnet",
		"llama3-2-1b-instruct", "llama3-2-3b-instruct",
	)},
	"eu-west-2": {area: "eu", models: modelSet()},
	"eu-west-3": {area: "eu", models: modelSet(
		"amazon-nova-lite", "amazon-nova-micro", "amazon-nova-pro",
		"claude-v4-sonnet", "claude-v3-haiku", "claude-v3.5-sonnet", "claude-v3.7-sonnet",
		"llama3-2-1b-instruct", "llama3-2-3b-instruct",
	)},
	"eu-north-1": {area: "eu", models: modelSet(
		"amazon-nova-lite", "amazon-nova-micro", "amazon-nova-pro",
	)},
	"ap-south-1": {area: "apac", models: modelSet(
		"amazon-nova-lite", "amazon-nova-micro", "amazon-nova-pro",
		"claude-v4-sonnet", "claude-v3-haiku", "claude-v3.5-sonnet", "claude-v3.5-sonnet-v2",
	)},
	"ap-northeast-1": {area: "apac", models: modelSet(
		"amazon-nova-lite", "amazon-nova-micro", "amazon-nova-pro",
		"claude-v4-sonnet", "claude-v3-haiku", "claude-v3.5-sonnet", "claude-v3.5-sonnet-v2",
	)},
	"ap-northeast-2": {area: "apac", models: modelSet(
		"amazon-nova-lite", "amazon-nova-micro", "amazon-nova-pro",
		"claude-v4-sonnet", "claude-v3-haiku", "claude-v3.5-sonnet", "claude-v3.5-sonnet-v2",
	)},
	"ap-northeast-3": {area: "apac", models: modelSet("claude-v3.5-sonnet-v2")},
	"ap-southeast-1": {area: "apac", models: modelSet(
		"amazon-nova-lite", "amazon-nova-micro", "amazon-nova-pro",
		"claude-v4-sonnet", "claude-v3-haiku", "claude-v3.5-sonnet", "claude-v3.5-sonnet-v2",
	)},
	"ap-southeast-2": {area: "apac", models: modelSet(
		"amazon-nova-lite", "amazon-nova-micro", "amazon-nova-pro",
		"claude-v4-sonnet", "claude-v3-haiku", "claude-v3.5-sonnet", "claude-v3.5-sonnet-v2",
	)},
}

// ResolveWireID returns the Bedrock model id to put on the wire. With
// cross-region inference enabled and a supported (region, model) pair, the
// base id is prefixed with the region's area code; otherwise the base id is
// returned unprefixed and the fallback is logged.
func ResolveWireID(model string, enableCrossRegion bool, region string) (string, error) {
	baseID, ok := baseWireIDs[model]
	if !ok {
		return "", errors.Wrapf(ErrUnsupportedModel, "model %q has no wire id", model)
	}

	if !enableCrossRegion {
		logger.Logger.Debug("using local model id",
			zap.String("model", model),
			zap.String("model_id", baseID))
		return baseID, nil
	}

	profile, ok := crossRegionProfiles[region]
	if !ok {
		logger.Logger.Warn("region does not support cross-region inference",
			zap.String("region", region),
			zap.String("model", model))
		return baseID, nil
	}
	if _, ok := profile.models[model]; !ok {
		logger.Logger.Warn("cross-region inference unsupported for model in region",
			zap.String("region", region),
			zap.String("model", model))
		return baseID, nil
	}

	wireID := profile.area + "." + baseID
	logger.Logger.Info("using cross-region model id",
		zap.String("model", model),
		zap.String("model_id", wireID),
		zap.String("region", region))
	return wireID, nil
}
