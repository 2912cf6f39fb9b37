package model

// ReasoningParams governs extended-thinking generation.
type ReasoningParams struct {
	BudgetTokens int32 `json:"budget_tokens"`
}

// GenerationParams carries per-request generation overrides. Nil pointer
// fields fall back to the model family's defaults at compile time; an empty
// or all-empty StopSequences is treated the same as an absent one.
type GenerationParams struct {
	MaxTokens     *int32           `json:"max_tokens,omitempty"`
	Temperature   *float32         `json:"temperature,omitempty"`
	TopP          *float32         `json:"top_p,omitempty"`
	TopK          *int32           `json:"top_k,omitempty"`
	StopSequences []string         `json:"stop_sequences,omitempty"`
	Reasoning     *ReasoningParams `json:"reasoning_params,omitempty"`
}

// EffectiveStopSequences returns the request's stop sequences, or nil when
// they are absent, empty, or contain only empty strings.
func (p *GenerationParams) EffectiveStopSequences() []string {
	if p == nil {
		return nil
	}
	for _, s := range p.StopSequences {
		if s != "" {
			return p.StopSequences
		}
	}
	return nil
}
