package model

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// Tool describes one tool available to the model: a name plus a JSON schema
// for its input.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// ToConverseSpec renders the tool definition as a Converse tool specification.
func (t *Tool) ToConverseSpec() types.Tool {
	spec := types.ToolSpecification{
		Name: aws.String(t.Name),
		InputSchema: &types.ToolInputSchemaMemberJson{
			Value: document.NewLazyDocument(t.InputSchema),
		},
	}
	if t.Description != "" {
		spec.Description = aws.String(t.Description)
	}
	return &types.ToolMemberToolSpec{Value: spec}
}
