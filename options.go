package ari

import (
	"fmt"

	"github.com/fumin/ari/ac"
	"github.com/fumin/ari/ac/witten"
)

const (
	// DefaultAdaptShift and DefaultAdaptConst produce the per-byte increment (total >> 10) + 1,
	// which still moves frequencies when the total is tiny.
	DefaultAdaptShift = 10
	DefaultAdaptConst = 1

	// DefaultThreshold is the cut threshold of byte stream models.
	DefaultThreshold = ac.RangeDefaultThreshold >> 2

	defaultFastAdaptShift = 4
)

// Options configures the byte stream adapters.
// The encoder and the decoder of a stream must use equal Options.
// A zero field means its default, so AdaptShift and AdaptConst cannot be set to 0.
type Options struct {
	// Threshold is the cut threshold of the models.
	Threshold ac.Border

	// AdaptShift and AdaptConst set the increment added after each byte.
	AdaptShift uint
	AdaptConst ac.Border

	// Mix, when set, codes with a blend of a slow and a fast adapting model.
	Mix *MixOptions
}

// MixOptions configures coding with a SumProxy over a slow model and a fast model.
type MixOptions struct {
	// FastAdaptShift replaces AdaptShift for the fast model.
	FastAdaptShift uint

	// The blend is (SlowWeight*slow + FastWeight*fast) >> WeightShift.
	SlowWeight  ac.Border
	FastWeight  ac.Border
	WeightShift uint
}

// DefaultMixOptions returns a blend of equal weights.
func DefaultMixOptions() *MixOptions {
	return &MixOptions{
		FastAdaptShift: defaultFastAdaptShift,
		SlowWeight:     1,
		FastWeight:     1,
		WeightShift:    1,
	}
}

// NewOptions returns a copy of options with zero fields set to their defaults.
// A nil options gives all defaults.
func NewOptions(options *Options) *Options {
	opt := &Options{
		Threshold:  DefaultThreshold,
		AdaptShift: DefaultAdaptShift,
		AdaptConst: DefaultAdaptConst,
	}
	if options == nil {
		return opt
	}
	if options.Threshold != 0 {
		opt.Threshold = options.Threshold
	}
	if options.AdaptShift != 0 {
		opt.AdaptShift = options.AdaptShift
	}
	if options.AdaptConst != 0 {
		opt.AdaptConst = options.AdaptConst
	}
	if options.Mix != nil {
		mix := *options.Mix
		if mix.FastAdaptShift == 0 {
			mix.FastAdaptShift = defaultFastAdaptShift
		}
		if mix.SlowWeight == 0 && mix.FastWeight == 0 {
			mix.SlowWeight, mix.FastWeight = 1, 1
		}
		// Every value keeps a non-empty blended interval only if the weights add up to at least 1 << WeightShift.
		if uint64(mix.SlowWeight)+uint64(mix.FastWeight) < uint64(1)<<mix.WeightShift {
			panic(fmt.Sprintf("ari: weights %d and %d too small for shift %d", mix.SlowWeight, mix.FastWeight, mix.WeightShift))
		}
		// The blended denominator stays below the blend of the thresholds, which the codec must accept.
		blended := (uint64(mix.SlowWeight)*uint64(opt.Threshold) + uint64(mix.FastWeight)*uint64(opt.Threshold)) >> mix.WeightShift
		if blended > uint64(witten.MaxDenominator) {
			panic(fmt.Sprintf("ari: weights %d and %d blend threshold %d beyond %d", mix.SlowWeight, mix.FastWeight, opt.Threshold, witten.MaxDenominator))
		}
		opt.Mix = &mix
	}
	return opt
}

// streamModel holds the models a byte stream adapter codes with and adapts.
type streamModel struct {
	opt  *Options
	slow *Model
	fast *Model
	code ac.Model
}

func newStreamModel(opt *Options) *streamModel {
	sm := &streamModel{opt: opt}
	sm.slow = NewFlatModel(Terminator+1, opt.Threshold)
	sm.code = sm.slow
	if opt.Mix != nil {
		sm.fast = NewFlatModel(Terminator+1, opt.Threshold)
		sm.code = NewSumProxy(opt.Mix.SlowWeight, sm.slow, opt.Mix.FastWeight, sm.fast, opt.Mix.WeightShift)
	}
	return sm
}

// update adapts the models after value is coded. The slow model always goes first.
func (sm *streamModel) update(value int) {
	sm.slow.Update(value, sm.opt.AdaptShift, sm.opt.AdaptConst)
	if sm.fast != nil {
		sm.fast.Update(value, sm.opt.Mix.FastAdaptShift, sm.opt.AdaptConst)
	}
}
