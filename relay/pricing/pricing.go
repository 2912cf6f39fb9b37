// Package pricing computes monetary cost from provider usage counters using a
// per-region, per-model price table with layered fallbacks.
package pricing

import (
	"github.com/Laisky/errors/v2"
)

// ErrPriceNotFound indicates the default table has no entry for a dispatched
// model. The default table must cover every enabled model; a miss is a
// configuration defect, not a runtime condition.
var ErrPriceNotFound = errors.New("price not found for model")

// ModelPrice lists USD prices per 1K tokens for one model. Nil fields are
// absent and resolved through the fallback chain: region entry, then the
// default region entry, and for cache prices finally the resolved input
// price.
type ModelPrice struct {
	Input           *float64
	Output          *float64
	CacheReadInput  *float64
	CacheWriteInput *float64
}

// Table maps region -> model -> prices. The "default" region entry is
// mandatory for every model that can be dispatched.
type Table map[string]map[string]ModelPrice

// DefaultRegion is the table key consulted when a region or field is missing.
const DefaultRegion = "default"

func (t Table) lookup(region, model string) (regional, fallback ModelPrice, err error) {
	if models, ok := t[region]; ok {
		regional = models[model]
	}
	fallback, ok := t[DefaultRegion][model]
	if !ok {
		return regional, fallback, errors.Wrapf(ErrPriceNotFound, "model %q", model)
	}
	return regional, fallback, nil
}

func resolve(regional, fallback *float64) (float64, bool) {
	if regional != nil {
		return *regional, true
	}
	if fallback != nil {
		return *fallback, true
	}
	return 0, false
}

// Calculate prices one turn from its usage counters. Each component resolves
// region entry first, then the default entry; cache read/write prices fall
// back further to the resolved input price when neither table defines them.
func (t Table) Calculate(model string, inputTokens, outputTokens, cacheReadInputTokens, cacheWriteInputTokens int, region string) (float64, error) {
	regional, fallback, err := t.lookup(region, model)
	if err != nil {
		return 0, err
	}

	inputPrice, ok := resolve(regional.Input, fallback.Input)
	if !ok {
		return 0, errors.Wrapf(ErrPriceNotFound, "model %q input price", model)
	}
	outputPrice, ok := resolve(regional.Output, fallback.Output)
	if !ok {
		return 0, errors.Wrapf(ErrPriceNotFound, "model %q output price", model)
	}
	cacheReadPrice, ok := resolve(regional.CacheReadInput, fallback.CacheReadInput)
	if !ok {
		cacheReadPrice = inputPrice
	}
	cacheWritePrice, ok := resolve(regional.CacheWriteInput, fallback.CacheWriteInput)
	if !ok {
		cacheWritePrice = inputPrice
	}

	return inputPrice*float64(inputTokens)/1000.0 +
		outputPrice*float64(outputTokens)/1000.0 +
		cacheReadPrice*float64(cacheReadInputTokens)/1000.0 +
		cacheWritePrice*float64(cacheWriteInputTokens)/1000.0, nil
}

// MediaPrice returns the flat per-item price for a media generation model,
// taken from the output field with the usual region fallback.
func (t Table) MediaPrice(model, region string) (float64, error) {
	regional, fallback, err := t.lookup(region, model)
	if err != nil {
		return 0, err
	}
	price, ok := resolve(regional.Output, fallback.Output)
	if !ok {
		return 0, errors.Wrapf(ErrPriceNotFound, "model %q output price", model)
	}
	return price, nil
}
