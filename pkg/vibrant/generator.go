package vibrant

import (
	"math"

	"github.com/hashicorp/go-hclog"
)

// Target describes the HSL profile a slot is looking for. Swatches outside
// the lightness or saturation bounds cannot fill the slot.
type Target struct {
	MinLightness    float64
	TargetLightness float64
	MaxLightness    float64

	MinSaturation    float64
	TargetSaturation float64
	MaxSaturation    float64
}

// Accepts reports whether the saturation and lightness fall inside the bounds.
func (t Target) Accepts(s, l float64) bool {
	return t.acceptsSaturation(s) && l >= t.MinLightness && l <= t.MaxLightness
}

func (t Target) acceptsSaturation(s float64) bool {
	return s >= t.MinSaturation && s <= t.MaxSaturation
}

// Weights controls how much each component contributes to a swatch score.
type Weights struct {
	Saturation float64
	Lightness  float64
	Population float64
}

// Default scoring and target constants.
const (
	WeightSaturation = 3.0
	WeightLightness  = 6.5
	WeightPopulation = 0.5

	TargetDarkLightness   = 0.26
	MaxDarkLightness      = 0.45
	MinLightLightness     = 0.55
	TargetLightLightness  = 0.74
	MinNormalLightness    = 0.3
	TargetNormalLightness = 0.5
	MaxNormalLightness    = 0.7

	TargetMutedSaturation   = 0.3
	MaxMutedSaturation      = 0.4
	TargetVibrantSaturation = 1.0
	MinVibrantSaturation    = 0.35

	// MinVibrantLightness is the lower lightness bound for the Vibrant slot.
	MinVibrantLightness = 0.35
)

// DefaultWeights returns the default scoring weights. Saturation and
// lightness dominate so a rare saturated colour can beat a common dull one.
func DefaultWeights() Weights {
	return Weights{
		Saturation: WeightSaturation,
		Lightness:  WeightLightness,
		Population: WeightPopulation,
	}
}

// DefaultTargets returns the profile for every slot, indexed by Slot.
func DefaultTargets() [SlotCount]Target {
	vibrant := func(minL, targetL, maxL float64) Target {
		return Target{
			MinLightness: minL, TargetLightness: targetL, MaxLightness: maxL,
			MinSaturation: MinVibrantSaturation, TargetSaturation: TargetVibrantSaturation, MaxSaturation: 1,
		}
	}
	muted := func(minL, targetL, maxL float64) Target {
		return Target{
			MinLightness: minL, TargetLightness: targetL, MaxLightness: maxL,
			MinSaturation: 0, TargetSaturation: TargetMutedSaturation, MaxSaturation: MaxMutedSaturation,
		}
	}

	var t [SlotCount]Target
	t[SlotVibrant] = vibrant(MinVibrantLightness, TargetNormalLightness, 1)
	t[SlotLightVibrant] = vibrant(MinLightLightness, TargetLightLightness, 1)
	t[SlotDarkVibrant] = vibrant(0, TargetDarkLightness, MaxDarkLightness)
	t[SlotMuted] = muted(MinNormalLightness, TargetNormalLightness, MaxNormalLightness)
	t[SlotLightMuted] = muted(MinLightLightness, TargetLightLightness, 1)
	t[SlotDarkMuted] = muted(0, TargetDarkLightness, MaxDarkLightness)
	return t
}

// DefaultGenerator scores swatches against the slot targets and assigns the
// best unclaimed swatch to each slot in priority order.
type DefaultGenerator struct {
	Weights Weights
	Targets [SlotCount]Target

	// DisableFallback leaves a category empty instead of synthesizing a
	// swatch when none of its slots could be filled.
	DisableFallback bool

	Logger hclog.Logger
}

// NewDefaultGenerator creates a generator with the default weights and targets.
func NewDefaultGenerator() *DefaultGenerator {
	return &DefaultGenerator{
		Weights: DefaultWeights(),
		Targets: DefaultTargets(),
	}
}

// Generate fills the six palette slots from the swatches. Empty input gives
// a palette with every slot empty.
func (g *DefaultGenerator) Generate(swatches []Swatch) (*Palette, error) {
	logger := g.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	maxPop := 0
	for _, sw := range swatches {
		maxPop = max(maxPop, sw.population)
	}

	p := &Palette{}
	claimed := make([]bool, len(swatches))

	for _, slot := range AllSlots() {
		target := g.Targets[slot]
		idx := g.best(p, swatches, claimed, maxPop, target, target.Accepts)
		if idx < 0 {
			continue
		}
		claimed[idx] = true
		sw := swatches[idx]
		p.slots[slot] = &sw
		logger.Debug("slot filled", "slot", slot.String(), "swatch", sw.Hex())
	}

	if !g.DisableFallback {
		g.fallback(p, swatches, claimed, maxPop, logger)
	}
	return p, nil
}

// slotCategories maps each category's normal slot to its members.
var slotCategories = map[Slot][]Slot{
	SlotVibrant: {SlotVibrant, SlotDarkVibrant, SlotLightVibrant},
	SlotMuted:   {SlotMuted, SlotDarkMuted, SlotLightMuted},
}

// fallback handles categories with no filled slot by moving the best
// same-category candidate to the normal slot's target lightness.
func (g *DefaultGenerator) fallback(p *Palette, swatches []Swatch, claimed []bool, maxPop int, logger hclog.Logger) {
	for _, normal := range []Slot{SlotVibrant, SlotMuted} {
		filled := false
		for _, slot := range slotCategories[normal] {
			if p.slots[slot] != nil {
				filled = true
				break
			}
		}
		if filled {
			continue
		}

		target := g.Targets[normal]
		idx := g.best(p, swatches, claimed, maxPop, target, func(s, _ float64) bool {
			return target.acceptsSaturation(s)
		})
		if idx < 0 {
			logger.Debug("no fallback candidate", "slot", normal.String())
			continue
		}

		src := swatches[idx]
		h, s, _ := src.HSL()
		synth := NewSwatch(HSLToRGB(h, s, target.TargetLightness), src.population)
		if !target.Accepts(synth.saturation, synth.lightness) || p.contains(synth) {
			continue
		}
		claimed[idx] = true
		p.slots[normal] = &synth
		logger.Debug("slot synthesized", "slot", normal.String(), "from", src.Hex(), "swatch", synth.Hex())
	}
}

// best returns the index of the highest-scoring unclaimed swatch accepted by
// eligible, or -1. Swatches whose colour already fills a slot in p are
// skipped. Ties keep the earlier swatch.
func (g *DefaultGenerator) best(p *Palette, swatches []Swatch, claimed []bool, maxPop int, target Target, eligible func(s, l float64) bool) int {
	bestIdx := -1
	bestScore := math.Inf(-1)
	for i, sw := range swatches {
		if claimed[i] || !eligible(sw.saturation, sw.lightness) || p.contains(sw) {
			continue
		}
		score := g.Score(sw, target, maxPop)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	return bestIdx
}

// Score rates how well a swatch matches a target. maxPop normalises the
// population component.
func (g *DefaultGenerator) Score(sw Swatch, target Target, maxPop int) float64 {
	popScore := 0.0
	if maxPop > 0 {
		popScore = float64(sw.population) / float64(maxPop)
	}
	return weightedMean(
		invertDiff(sw.saturation, target.TargetSaturation), g.Weights.Saturation,
		invertDiff(sw.lightness, target.TargetLightness), g.Weights.Lightness,
		popScore, g.Weights.Population,
	)
}

func (p *Palette) contains(sw Swatch) bool {
	for _, s := range p.slots {
		if s != nil && s.Equal(sw) {
			return true
		}
	}
	return false
}

func invertDiff(value, target float64) float64 {
	return 1 - math.Abs(value-target)
}

// weightedMean takes alternating value, weight pairs.
func weightedMean(values ...float64) float64 {
	var sum, weightSum float64
	for i := 0; i+1 < len(values); i += 2 {
		sum += values[i] * values[i+1]
		weightSum += values[i+1]
	}
	if weightSum == 0 {
		return 0
	}
	return sum / weightSum
}
