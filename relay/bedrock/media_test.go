package bedrock

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/require"
)

// mediaRuntime answers InvokeModel with a canned body and records the request.
type mediaRuntime struct {
	fakeRuntime
	body    []byte
	lastReq *bedrockruntime.InvokeModelInput
}

func (m *mediaRuntime) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	m.lastReq = params
	if err := m.next(); err != nil {
		return nil, err
	}
	return &bedrockruntime.InvokeModelOutput{Body: m.body}, nil
}

func mediaDispatcher(runtime Runtime) *Dispatcher {
	d := NewDispatcherWithPolicy(runtime, RetryPolicy{Tries: 1, Delay: time.Millisecond})
	d.sleep = func(ctx context.Context, wait time.Duration) error { return nil }
	return d
}

func TestGenerateImage(t *testing.T) {
	t.Parallel()

	imageBytes := []byte{0x89, 0x50, 0x4e, 0x47}
	body, err := json.Marshal(map[string]any{
		"images": []string{base64.StdEncoding.EncodeToString(imageBytes)},
	})
	require.NoError(t, err)

	t.Run("defaults and seed", func(t *testing.T) {
		t.Parallel()
		runtime := &mediaRuntime{body: body}
		d := mediaDispatcher(runtime)

		seed := int64(42)
		image, err := d.GenerateImage(context.Background(), ImageGenerationInput{
			Prompt: "a lighthouse at dusk",
			Seed:   &seed,
		})
		require.NoError(t, err)
		require.Equal(t, imageBytes, image.Data)
		require.Equal(t, int64(42), image.Seed)
		require.Equal(t, "a lighthouse at dusk", image.Prompt)
		require.NotEmpty(t, image.ID)

		require.Equal(t, "amazon.nova-canvas-v1:0", aws.ToString(runtime.lastReq.ModelId))

		var req map[string]any
		require.NoError(t, json.Unmarshal(runtime.lastReq.Body, &req))
		require.Equal(t, "TEXT_IMAGE", req["taskType"])
		cfg := req["imageGenerationConfig"].(map[string]any)
		require.Equal(t, float64(1024), cfg["width"])
		require.Equal(t, float64(1024), cfg["height"])
		require.Equal(t, float64(7), cfg["cfgScale"])
		require.Equal(t, float64(42), cfg["seed"])
	})

	t.Run("negative prompt included only when set", func(t *testing.T) {
		t.Parallel()
		runtime := &mediaRuntime{body: body}
		d := mediaDispatcher(runtime)

		_, err := d.GenerateImage(context.Background(), ImageGenerationInput{
			Prompt:         "a forest",
			NegativePrompt: "people",
		})
		require.NoError(t, err)

		var req map[string]any
		require.NoError(t, json.Unmarshal(runtime.lastReq.Body, &req))
		params := req["textToImageParams"].(map[string]any)
		require.Equal(t, "people", params["negativeText"])
	})

	t.Run("empty response errors", func(t *testing.T) {
		t.Parallel()
		empty, _ := json.Marshal(map[string]any{"images": []string{}})
		runtime := &mediaRuntime{body: empty}
		d := mediaDispatcher(runtime)

		_, err := d.GenerateImage(context.Background(), ImageGenerationInput{Prompt: "x"})
		require.Error(t, err)
	})
}

func TestGenerateVideo(t *testing.T) {
	t.Parallel()

	videoBytes := []byte{0x00, 0x00, 0x00, 0x18}
	body, err := json.Marshal(map[string]any{
		"videos": []string{base64.StdEncoding.EncodeToString(videoBytes)},
	})
	require.NoError(t, err)

	t.Run("duration is capped at the provider limit", func(t *testing.T) {
		t.Parallel()
		runtime := &mediaRuntime{body: body}
		d := mediaDispatcher(runtime)

		video, err := d.GenerateVideo(context.Background(), VideoGenerationInput{
			Prompt:          "waves on a beach",
			DurationSeconds: 30,
		})
		require.NoError(t, err)
		require.Equal(t, int32(6), video.DurationSeconds)
		require.Equal(t, videoBytes, video.Data)

		require.Equal(t, "amazon.nova-reel-v1:0", aws.ToString(runtime.lastReq.ModelId))

		var req map[string]any
		require.NoError(t, json.Unmarshal(runtime.lastReq.Body, &req))
		require.Equal(t, "TEXT_VIDEO", req["taskType"])
		cfg := req["videoGenerationConfig"].(map[string]any)
		require.Equal(t, float64(6), cfg["durationSeconds"])
		require.Equal(t, float64(24), cfg["fps"])
		require.Equal(t, "1280x720", cfg["dimension"])
	})
}
