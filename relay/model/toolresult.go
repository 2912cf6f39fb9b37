package model

import (
	"encoding/json"

	"github.com/Laisky/errors/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// ToolResult is one entry of a tool invocation's result.
type ToolResult interface {
	ToConverseBlock() types.ToolResultContentBlock
}

// TextToolResult carries a plain text result.
type TextToolResult struct {
	Text string `json:"text"`
}

func (r *TextToolResult) ToConverseBlock() types.ToolResultContentBlock {
	return &types.ToolResultContentBlockMemberText{Value: r.Text}
}

// JSONToolResult carries a structured result.
type JSONToolResult struct {
	JSON map[string]any `json:"json"`
}

func (r *JSONToolResult) ToConverseBlock() types.ToolResultContentBlock {
	return &types.ToolResultContentBlockMemberJson{Value: document.NewLazyDocument(r.JSON)}
}

// ImageToolResult carries an image result, e.g. a rendered chart.
type ImageToolResult struct {
	Format string `json:"format"`
	Image  []byte `json:"image"`
}

func (r *ImageToolResult) ToConverseBlock() types.ToolResultContentBlock {
	return &types.ToolResultContentBlockMemberImage{
		Value: types.ImageBlock{
			Format: types.ImageFormat(r.Format),
			Source: &types.ImageSourceMemberBytes{Value: r.Image},
		},
	}
}

// DocumentToolResult carries a document result.
type DocumentToolResult struct {
	Format   string `json:"format"`
	Name     string `json:"name"`
	Document []byte `json:"document"`
}

func (r *DocumentToolResult) ToConverseBlock() types.ToolResultContentBlock {
	return &types.ToolResultContentBlockMemberDocument{
		Value: types.DocumentBlock{
			Format: types.DocumentFormat(r.Format),
			Name:   aws.String(r.Name),
			Source: &types.DocumentSourceMemberBytes{Value: r.Document},
		},
	}
}

// ToolResultBody is the outcome of a tool invocation, tied back to the
// originating tool use id.
type ToolResultBody struct {
	ToolUseID string       `json:"tool_use_id"`
	Content   []ToolResult `json:"content"`
	Status    string       `json:"status"`
}

// UnmarshalJSON accepts both a result list and, for backward compatibility
// with older persisted conversations, a single bare result object that is
// wrapped into a one-element list. The bare form is deprecated; new writers
// always store a list.
func (b *ToolResultBody) UnmarshalJSON(data []byte) error {
	var raw struct {
		ToolUseID string          `json:"tool_use_id"`
		Content   json.RawMessage `json:"content"`
		Status    string          `json:"status"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "decode tool result body")
	}

	b.ToolUseID = raw.ToolUseID
	b.Status = raw.Status

	if len(raw.Content) == 0 {
		b.Content = nil
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw.Content, &entries); err != nil {
		entries = []json.RawMessage{raw.Content}
	}

	b.Content = make([]ToolResult, 0, len(entries))
	for _, entry := range entries {
		result, err := unmarshalToolResult(entry)
		if err != nil {
			return err
		}
		b.Content = append(b.Content, result)
	}
	return nil
}

func unmarshalToolResult(data []byte) (ToolResult, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, errors.Wrap(err, "decode tool result entry")
	}

	var result ToolResult
	switch {
	case probe["text"] != nil:
		result = &TextToolResult{}
	case probe["json"] != nil:
		result = &JSONToolResult{}
	case probe["image"] != nil:
		result = &ImageToolResult{}
	case probe["document"] != nil:
		result = &DocumentToolResult{}
	default:
		return nil, errors.New("unknown tool result type")
	}
	if err := json.Unmarshal(data, result); err != nil {
		return nil, errors.Wrap(err, "decode tool result entry")
	}
	return result, nil
}

// ToolResultContent records the result of a tool invocation within a message.
type ToolResultContent struct {
	Body ToolResultBody `json:"body"`
}

func (c *ToolResultContent) ContentType() string { return "toolResult" }

func (c *ToolResultContent) ToConverseBlocks() []types.ContentBlock {
	blocks := make([]types.ToolResultContentBlock, 0, len(c.Body.Content))
	for _, entry := range c.Body.Content {
		blocks = append(blocks, entry.ToConverseBlock())
	}

	return []types.ContentBlock{
		&types.ContentBlockMemberToolResult{
			Value: types.ToolResultBlock{
				ToolUseId: aws.String(c.Body.ToolUseID),
				Content:   blocks,
				Status:    types.ToolResultStatus(c.Body.Status),
			},
		},
	}
}
