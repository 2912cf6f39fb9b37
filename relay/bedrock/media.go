package bedrock

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"math/rand"

	"github.com/Laisky/errors/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/google/uuid"

	"github.com/openchat-labs/bedrock-relay/common/config"
)

const (
	modelNovaCanvas = "amazon-nova-canvas"
	modelNovaReel   = "amazon-nova-reel"

	// Nova Reel caps clips at six seconds.
	maxReelDurationSeconds = 6

	mediaContentType = "application/json"
)

// ImageGenerationInput describes one text-to-image request.
type ImageGenerationInput struct {
	Prompt         string
	NegativePrompt string
	Width          int32
	Height         int32
	CfgScale       float64
	// Seed is randomized when nil.
	Seed *int64
}

// GeneratedImage is one produced image with the inputs that shaped it.
type GeneratedImage struct {
	ID     string
	Data   []byte
	Seed   int64
	Prompt string
}

// VideoGenerationInput describes one text-to-video request.
type VideoGenerationInput struct {
	Prompt          string
	NegativePrompt  string
	DurationSeconds int32
	FPS             int32
	Seed            *int64
}

// GeneratedVideo is one produced clip.
type GeneratedVideo struct {
	ID              string
	Data            []byte
	Seed            int64
	Prompt          string
	DurationSeconds int32
}

func resolveSeed(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	return int64(rand.Int31())
}

// GenerateImage produces an image with Amazon Nova Canvas. Throttling is
// retried under the same policy as text inference.
func (d *Dispatcher) GenerateImage(ctx context.Context, in ImageGenerationInput) (*GeneratedImage, error) {
	modelID, err := ResolveWireID(modelNovaCanvas, config.EnableCrossRegionInference, config.BedrockRegion)
	if err != nil {
		return nil, err
	}

	seed := resolveSeed(in.Seed)
	width, height := in.Width, in.Height
	if width == 0 {
		width = 1024
	}
	if height == 0 {
		height = 1024
	}
	cfgScale := in.CfgScale
	if cfgScale == 0 {
		cfgScale = 7.0
	}

	textToImageParams := map[string]any{
		"text":   in.Prompt,
		"images": []any{},
	}
	if in.NegativePrompt != "" {
		textToImageParams["negativeText"] = in.NegativePrompt
	}

	body, err := json.Marshal(map[string]any{
		"taskType":          "TEXT_IMAGE",
		"textToImageParams": textToImageParams,
		"imageGenerationConfig": map[string]any{
			"numberOfImages": 1,
			"height":         height,
			"width":          width,
			"cfgScale":       cfgScale,
			"seed":           seed,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal image generation request")
	}

	var out *bedrockruntime.InvokeModelOutput
	err = d.withRetry(ctx, "InvokeModel/NovaCanvas", func(ctx context.Context) error {
		var callErr error
		out, callErr = d.runtime.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
			ModelId:     aws.String(modelID),
			Body:        body,
			ContentType: aws.String(mediaContentType),
			Accept:      aws.String(mediaContentType),
		})
		return callErr
	})
	if err != nil {
		return nil, err
	}

	var response struct {
		Images []string `json:"images"`
	}
	if err := json.Unmarshal(out.Body, &response); err != nil {
		return nil, errors.Wrap(err, "decode image generation response")
	}
	if len(response.Images) == 0 {
		return nil, errors.New("no image generated in response")
	}

	data, err := base64.StdEncoding.DecodeString(response.Images[0])
	if err != nil {
		return nil, errors.Wrap(err, "decode generated image")
	}

	return &GeneratedImage{
		ID:     uuid.New().String(),
		Data:   data,
		Seed:   seed,
		Prompt: in.Prompt,
	}, nil
}

// GenerateVideo produces a clip with Amazon Nova Reel. Duration is capped at
// the provider limit rather than rejected.
func (d *Dispatcher) GenerateVideo(ctx context.Context, in VideoGenerationInput) (*GeneratedVideo, error) {
	modelID, err := ResolveWireID(modelNovaReel, config.EnableCrossRegionInference, config.BedrockRegion)
	if err != nil {
		return nil, err
	}

	seed := resolveSeed(in.Seed)
	duration := in.DurationSeconds
	if duration == 0 {
		duration = maxReelDurationSeconds
	}
	if duration > maxReelDurationSeconds {
		duration = maxReelDurationSeconds
	}
	fps := in.FPS
	if fps == 0 {
		fps = 24
	}

	textToVideoParams := map[string]any{
		"text": in.Prompt,
	}
	if in.NegativePrompt != "" {
		textToVideoParams["negativeText"] = in.NegativePrompt
	}

	body, err := json.Marshal(map[string]any{
		"taskType":          "TEXT_VIDEO",
		"textToVideoParams": textToVideoParams,
		"videoGenerationConfig": map[string]any{
			"durationSeconds": duration,
			"fps":             fps,
			"dimension":       "1280x720",
			"seed":            seed,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal video generation request")
	}

	var out *bedrockruntime.InvokeModelOutput
	err = d.withRetry(ctx, "InvokeModel/NovaReel", func(ctx context.Context) error {
		var callErr error
		out, callErr = d.runtime.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
			ModelId:     aws.String(modelID),
			Body:        body,
			ContentType: aws.String(mediaContentType),
			Accept:      aws.String(mediaContentType),
		})
		return callErr
	})
	if err != nil {
		return nil, err
	}

	var response struct {
		Videos []string `json:"videos"`
	}
	if err := json.Unmarshal(out.Body, &response); err != nil {
		return nil, errors.Wrap(err, "decode video generation response")
	}
	if len(response.Videos) == 0 {
		return nil, errors.New("no video generated in response")
	}

	data, err := base64.StdEncoding.DecodeString(response.Videos[0])
	if err != nil {
		return nil, errors.Wrap(err, "decode generated video")
	}

	return &GeneratedVideo{
		ID:              uuid.New().String(),
		Data:            data,
		Seed:            seed,
		Prompt:          in.Prompt,
		DurationSeconds: duration,
	}, nil
}
