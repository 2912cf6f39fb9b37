package model

// Guardrails configures the provider-side content safety policy applied to a
// request. A guardrail is only attached to the wire request when both ARN and
// version are set; a positive GroundingThreshold additionally activates
// grounding-source fact checking of user text.
type Guardrails struct {
	GuardrailARN       string  `json:"guardrail_arn"`
	GuardrailVersion   string  `json:"guardrail_version"`
	GroundingThreshold float64 `json:"grounding_threshold"`
}

// Enabled reports whether the guardrail is complete enough to send.
func (g *Guardrails) Enabled() bool {
	return g != nil && g.GuardrailARN != "" && g.GuardrailVersion != ""
}

// GroundingEnabled reports whether user text should be wrapped in guard
// content blocks against a grounding source.
func (g *Guardrails) GroundingEnabled() bool {
	return g != nil && g.GroundingThreshold > 0
}
