package graph

import (
	"fmt"
	"math"

	"github.com/manngobeh2006/oneclick-master/model"
)

const (
	// EQ moves at or below this magnitude are inaudible and are not
	// compiled into the graph.
	eqDeadZoneDB = 0.1

	// Crossover frequencies of the three-band dynamics section.
	crossoverLowHz  = 250
	crossoverHighHz = 2500

	saturationHarmonics = 8.5
	enhancerHarmonics   = 12

	normalizeTruePeakDB    = -1.0
	normalizeLoudnessRange = 7

	busMakeupDB = 1
)

// multibandMakeupDB compensates the per-band level loss after compression.
var multibandMakeupDB = [model.MultibandCount]float64{2, 2, 1}

// InvariantViolationError reports a resolved parameter outside its hard
// bounds. The compiler refuses to emit a graph from such a set; reaching
// this error means the resolver failed its clamping contract.
type InvariantViolationError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation: %s = %v outside [%v, %v]",
		e.Field, e.Value, e.Min, e.Max)
}

func outOfRange(v, min, max float64) bool {
	return math.IsNaN(v) || v < min || v > max
}

func checkParameterSet(p model.ParameterSet) error {
	if outOfRange(p.TargetLUFS, model.TargetLUFSMin, model.TargetLUFSMax) {
		return &InvariantViolationError{
			Field: "targetLufs", Value: p.TargetLUFS,
			Min: model.TargetLUFSMin, Max: model.TargetLUFSMax,
		}
	}
	if outOfRange(p.StereoWidth, model.StereoWidthMin, model.StereoWidthMax) {
		return &InvariantViolationError{
			Field: "stereoWidth", Value: p.StereoWidth,
			Min: model.StereoWidthMin, Max: model.StereoWidthMax,
		}
	}
	for i, band := range p.EQBands {
		if outOfRange(band.GainDB, -model.EQGainLimitDB, model.EQGainLimitDB) {
			return &InvariantViolationError{
				Field: fmt.Sprintf("eqBands[%d].gainDb", i), Value: band.GainDB,
				Min: -model.EQGainLimitDB, Max: model.EQGainLimitDB,
			}
		}
	}
	for i, mb := range p.Multiband {
		if outOfRange(mb.Ratio, model.RatioMin, math.Inf(1)) {
			return &InvariantViolationError{
				Field: fmt.Sprintf("multiband[%d].ratio", i), Value: mb.Ratio,
				Min: model.RatioMin, Max: math.Inf(1),
			}
		}
	}
	if outOfRange(p.Bus.Ratio, model.RatioMin, math.Inf(1)) {
		return &InvariantViolationError{
			Field: "bus.ratio", Value: p.Bus.Ratio,
			Min: model.RatioMin, Max: math.Inf(1),
		}
	}
	return nil
}

// Compile turns a resolved parameter set into the fixed mastering chain:
// input conditioning, saturation, corrective EQ, three-band dynamics, stereo
// width, bus compression, harmonic enhancement, loudness normalization and
// limiting. Optional stages drop out entirely when their parameters say they
// would do nothing. Parameters outside their hard bounds abort compilation
// with an *InvariantViolationError.
func Compile(p model.ParameterSet) (*Graph, error) {
	if err := checkParameterSet(p); err != nil {
		return nil, err
	}

	b := newBuilder()

	b.appendFilter("highpass", &FilterSpec{Op: OpHighpass, FreqHz: p.HighpassHz})
	b.appendFilter("lowpass", &FilterSpec{Op: OpLowpass, FreqHz: p.LowpassHz})

	if p.SaturationAmount > 0 {
		b.appendFilter("saturation", &FilterSpec{
			Op:        OpExciter,
			Amount:    p.SaturationAmount,
			Harmonics: saturationHarmonics,
		})
	}

	for _, band := range p.EQBands {
		if math.Abs(band.GainDB) <= eqDeadZoneDB {
			continue
		}
		b.appendFilter("eq_"+band.Name, &FilterSpec{
			Op:     OpEqualizer,
			FreqHz: band.FreqHz,
			GainDB: band.GainDB,
			Q:      band.Q,
		})
	}

	branches := []string{"low", "mid", "high"}
	b.split("band_split", branches)
	b.branchFilter("low", "low_band", &FilterSpec{
		Op: OpBandlimit, HighHz: crossoverLowHz,
	})
	b.branchDynamics("low", "low_comp", p.Multiband[model.MultibandLow], multibandMakeupDB[model.MultibandLow])
	b.branchFilter("mid", "mid_band", &FilterSpec{
		Op: OpBandlimit, LowHz: crossoverLowHz, HighHz: crossoverHighHz,
	})
	b.branchDynamics("mid", "mid_comp", p.Multiband[model.MultibandMid], multibandMakeupDB[model.MultibandMid])
	b.branchFilter("high", "high_band", &FilterSpec{
		Op: OpBandlimit, LowHz: crossoverHighHz,
	})
	b.branchDynamics("high", "high_comp", p.Multiband[model.MultibandHigh], multibandMakeupDB[model.MultibandHigh])
	b.merge("band_merge", branches)

	if p.StereoWidth != 1.0 {
		b.appendFilter("widener", &FilterSpec{Op: OpWidener, Width: p.StereoWidth})
	}

	b.appendDynamics("bus_comp", p.Bus, busMakeupDB)

	if p.HarmonicEnhancement > 0 {
		b.appendFilter("harmonics", &FilterSpec{
			Op:        OpExciter,
			Amount:    p.HarmonicEnhancement,
			Harmonics: enhancerHarmonics,
			FullBand:  true,
		})
	}

	b.appendNormalize("loudness", &NormalizeSpec{
		TargetLUFS:      p.TargetLUFS,
		TruePeakDB:      normalizeTruePeakDB,
		LoudnessRangeLU: normalizeLoudnessRange,
	})
	b.appendLimit("limiter", &LimitSpec{
		CeilingDB: p.LimiterCeilingDB,
		ReleaseMs: p.LimiterReleaseMs,
	})

	g := b.graph()
	if err := Validate(g); err != nil {
		return nil, fmt.Errorf("compiled graph failed validation: %w", err)
	}
	return g, nil
}

// builder assembles a graph left to right, tracking the open output of the
// main path and of each split branch.
type builder struct {
	stages []Stage
	edges  []Edge
	tail   PortRef
	branch map[string]PortRef
}

func newBuilder() *builder {
	return &builder{branch: make(map[string]PortRef)}
}

func (b *builder) append(s Stage) {
	if b.tail.Stage != "" {
		b.edges = append(b.edges, Edge{From: b.tail, To: PortRef{Stage: s.Name, Port: "in"}})
	}
	b.stages = append(b.stages, s)
	b.tail = PortRef{Stage: s.Name, Port: "out"}
}

func (b *builder) appendFilter(name string, spec *FilterSpec) {
	b.append(Stage{Name: name, Kind: StageFilter, Filter: spec})
}

func (b *builder) appendDynamics(name string, c model.CompressorSettings, makeupDB float64) {
	b.append(Stage{Name: name, Kind: StageDynamics, Dynamics: &DynamicsSpec{
		ThresholdDB: c.ThresholdDB,
		Ratio:       c.Ratio,
		AttackMs:    c.AttackMs,
		ReleaseMs:   c.ReleaseMs,
		MakeupDB:    makeupDB,
	}})
}

func (b *builder) appendNormalize(name string, spec *NormalizeSpec) {
	b.append(Stage{Name: name, Kind: StageNormalize, Normalize: spec})
}

func (b *builder) appendLimit(name string, spec *LimitSpec) {
	b.append(Stage{Name: name, Kind: StageLimit, Limit: spec})
}

func (b *builder) split(name string, branches []string) {
	b.append(Stage{Name: name, Kind: StageSplit, Branches: branches})
	for _, br := range branches {
		b.branch[br] = PortRef{Stage: name, Port: br}
	}
	b.tail = PortRef{}
}

func (b *builder) branchAppend(branch string, s Stage) {
	b.edges = append(b.edges, Edge{From: b.branch[branch], To: PortRef{Stage: s.Name, Port: "in"}})
	b.stages = append(b.stages, s)
	b.branch[branch] = PortRef{Stage: s.Name, Port: "out"}
}

func (b *builder) branchFilter(branch, name string, spec *FilterSpec) {
	b.branchAppend(branch, Stage{Name: name, Kind: StageFilter, Filter: spec})
}

func (b *builder) branchDynamics(branch, name string, c model.CompressorSettings, makeupDB float64) {
	b.branchAppend(branch, Stage{Name: name, Kind: StageDynamics, Dynamics: &DynamicsSpec{
		ThresholdDB: c.ThresholdDB,
		Ratio:       c.Ratio,
		AttackMs:    c.AttackMs,
		ReleaseMs:   c.ReleaseMs,
		MakeupDB:    makeupDB,
	}})
}

func (b *builder) merge(name string, branches []string) {
	b.stages = append(b.stages, Stage{Name: name, Kind: StageMerge, Branches: branches})
	for _, br := range branches {
		b.edges = append(b.edges, Edge{From: b.branch[br], To: PortRef{Stage: name, Port: br}})
		delete(b.branch, br)
	}
	b.tail = PortRef{Stage: name, Port: "out"}
}

func (b *builder) graph() *Graph {
	return &Graph{Stages: b.stages, Edges: b.edges}
}
