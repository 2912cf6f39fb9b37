package pricing

// usd returns a pointer for table literals.
func usd(v float64) *float64 { return &v }

// Default is the built-in price table, USD per 1K tokens (flat per item for
// media generation models). The "default" region must list every enabled
// model; regional entries only override where prices differ.
// Pricing from https://aws.amazon.com/bedrock/pricing/
var Default = Table{
	DefaultRegion: {
		// Claude models. $/1M: haiku-3 $0.25/$1.25, haiku-3.5 $0.8/$4,
		// sonnet-3.x/4 $3/$15, opus-3/4 $15/$75.
		"claude-v3-haiku": {Input: usd(0.00025), Output: usd(0.00125)},
		"claude-v3-opus":  {Input: usd(0.015), Output: usd(0.075)},
		"claude-v3.5-haiku": {
			Input: usd(0.0008), Output: usd(0.004),
			CacheReadInput: usd(0.00008), CacheWriteInput: usd(0.001),
		},
		"claude-v3.5-sonnet": {Input: usd(0.003), Output: usd(0.015)},
		"claude-v3.5-sonnet-v2": {
			Input: usd(0.003), Output: usd(0.015),
			CacheReadInput: usd(0.0003), CacheWriteInput: usd(0.00375),
		},
		"claude-v3.7-sonnet": {
			Input: usd(0.003), Output: usd(0.015),
			CacheReadInput: usd(0.0003), CacheWriteInput: usd(0.00375),
		},
		"claude-v4-sonnet": {
			Input: usd(0.003), Output: usd(0.015),
			CacheReadInput: usd(0.0003), CacheWriteInput: usd(0.00375),
		},
		"claude-v4-opus": {
			Input: usd(0.015), Output: usd(0.075),
			CacheReadInput: usd(0.0015), CacheWriteInput: usd(0.01875),
		},

		// Mistral models.
		"mistral-7b-instruct":   {Input: usd(0.00015), Output: usd(0.0002)},
		"mixtral-8x7b-instruct": {Input: usd(0.00045), Output: usd(0.0007)},
		"mistral-large":         {Input: usd(0.004), Output: usd(0.012)},
		"mistral-large-2":       {Input: usd(0.002), Output: usd(0.006)},

		// Amazon Nova models.
		"amazon-nova-pro":   {Input: usd(0.0008), Output: usd(0.0032)},
		"amazon-nova-lite":  {Input: usd(0.00006), Output: usd(0.00024)},
		"amazon-nova-micro": {Input: usd(0.000035), Output: usd(0.00014)},

		// Media generation, flat per item.
		"amazon-nova-canvas": {Output: usd(0.04)},
		"amazon-nova-reel":   {Output: usd(0.48)},

		"deepseek-r1": {Input: usd(0.00135), Output: usd(0.0054)},

		// Meta Llama models.
		"llama3-3-70b-instruct": {Input: usd(0.00072), Output: usd(0.00072)},
		"llama3-2-1b-instruct":  {Input: usd(0.0001), Output: usd(0.0001)},
		"llama3-2-3b-instruct":  {Input: usd(0.00015), Output: usd(0.00015)},
		"llama3-2-11b-instruct": {Input: usd(0.00016), Output: usd(0.00016)},
		"llama3-2-90b-instruct": {Input: usd(0.00072), Output: usd(0.00072)},
	},

	// Regional overrides where list prices diverge from the default table.
	"ap-northeast-1": {
		"claude-v3-haiku":    {Input: usd(0.0003), Output: usd(0.0015)},
		"claude-v3.5-sonnet": {Input: usd(0.003), Output: usd(0.015)},
	},
	"eu-central-1": {
		"claude-v3-haiku": {Input: usd(0.0003), Output: usd(0.0015)},
	},
}
