package model

// Hard bounds every resolved ParameterSet must satisfy. The resolver clamps
// to these; the graph compiler rejects anything outside them.
const (
	TargetLUFSMin  = -18.0
	TargetLUFSMax  = -8.0
	StereoWidthMin = 0.8
	StereoWidthMax = 1.5
	RatioMin       = 1.0
	EQGainLimitDB  = 6.0
)

// Indexes into ParameterSet.EQBands, in ascending frequency order.
const (
	BandSubBass = iota
	BandBass
	BandLowMid
	BandMid
	BandHighMid
	BandPresence
	BandAir
	EQBandCount
)

// Indexes into ParameterSet.Multiband.
const (
	MultibandLow = iota
	MultibandMid
	MultibandHigh
	MultibandCount
)

// EQBand is one parametric equalizer band.
type EQBand struct {
	Name   string  `json:"name"`
	FreqHz float64 `json:"freqHz"`
	GainDB float64 `json:"gainDb"`
	Q      float64 `json:"q"`
}

// CompressorSettings configures one compressor, multiband or bus.
type CompressorSettings struct {
	ThresholdDB float64 `json:"thresholdDb"`
	Ratio       float64 `json:"ratio"`
	AttackMs    float64 `json:"attackMs"`
	ReleaseMs   float64 `json:"releaseMs"`
}

// ParameterSet is a complete, concrete mastering decision for one track.
// It is a value type: fixed-size arrays instead of slices or maps, so plain
// assignment deep-copies and resolved sets never alias each other.
type ParameterSet struct {
	HighpassHz float64 `json:"highpassHz"`
	LowpassHz  float64 `json:"lowpassHz"`

	EQBands [EQBandCount]EQBand `json:"eqBands"`

	Multiband [MultibandCount]CompressorSettings `json:"multiband"`
	Bus       CompressorSettings                 `json:"bus"`

	StereoWidth float64 `json:"stereoWidth"`
	BassMonoHz  float64 `json:"bassMonoHz"`

	SaturationAmount    float64 `json:"saturationAmount"`
	HarmonicEnhancement float64 `json:"harmonicEnhancement"`

	LimiterCeilingDB float64 `json:"limiterCeilingDb"`
	LimiterReleaseMs float64 `json:"limiterReleaseMs"`

	TargetLUFS float64 `json:"targetLufs"`

	PreserveDynamics bool `json:"preserveDynamics"`
	GentleProcessing bool `json:"gentleProcessing"`
}
