package bedrock

import (
	"encoding/json"

	"github.com/Laisky/zap"

	"github.com/openchat-labs/bedrock-relay/common/logger"
	"github.com/openchat-labs/bedrock-relay/relay/model"
)

// NewToolResultContent builds the tool-result content block recorded for a
// tool invocation against the given model. Nova models reject tool results
// holding more than one text or JSON entry, so for Nova those entries are
// flattened into a single JSON-encoded text entry.
func NewToolResultContent(modelName, toolUseID, status string, results []model.ToolResult) *model.ToolResultContent {
	if FamilyOf(modelName) == FamilyNova {
		var textOrJSON []any
		for _, result := range results {
			switch r := result.(type) {
			case *model.TextToolResult:
				textOrJSON = append(textOrJSON, r.Text)
			case *model.JSONToolResult:
				textOrJSON = append(textOrJSON, r.JSON)
			}
		}
		if len(textOrJSON) > 1 {
			flattened, err := json.Marshal(textOrJSON)
			if err != nil {
				logger.Logger.Warn("flatten tool results for nova", zap.Error(err))
			} else {
				results = []model.ToolResult{&model.TextToolResult{Text: string(flattened)}}
			}
		}
	}

	return &model.ToolResultContent{
		Body: model.ToolResultBody{
			ToolUseID: toolUseID,
			Content:   results,
			Status:    status,
		},
	}
}
