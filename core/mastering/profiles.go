package mastering

import (
	"sort"

	"github.com/manngobeh2006/oneclick-master/model"
)

// Profile labels available in the base catalog.
const (
	ProfileModernPop           = "modern_pop"
	ProfileBassHeavyModern     = "bass_heavy_modern"
	ProfileSmoothVocalFocus    = "smooth_vocal_focus"
	ProfileAggressiveUrban     = "aggressive_urban"
	ProfileLogDrumEmphasis     = "log_drum_emphasis"
	ProfileDynamicPreservation = "dynamic_preservation"
)

// DefaultProfile is used whenever no usable profile hint is given.
const DefaultProfile = ProfileModernPop

// Catalog holds the hand-tuned base profiles. It is built once at startup
// and never mutated; Get hands out value copies.
type Catalog struct {
	profiles map[string]model.ParameterSet
	labels   []string
}

// NewCatalog builds the base profile catalog.
func NewCatalog() *Catalog {
	profiles := map[string]model.ParameterSet{
		ProfileModernPop:           modernPopProfile(),
		ProfileBassHeavyModern:     bassHeavyModernProfile(),
		ProfileSmoothVocalFocus:    smoothVocalFocusProfile(),
		ProfileAggressiveUrban:     aggressiveUrbanProfile(),
		ProfileLogDrumEmphasis:     logDrumEmphasisProfile(),
		ProfileDynamicPreservation: dynamicPreservationProfile(),
	}

	labels := make([]string, 0, len(profiles))
	for label := range profiles {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	return &Catalog{profiles: profiles, labels: labels}
}

// Get returns the parameter set for a profile label. Unknown labels fall
// back to the default profile; the second return reports whether the label
// was known.
func (c *Catalog) Get(label string) (model.ParameterSet, bool) {
	if p, ok := c.profiles[label]; ok {
		return p, true
	}
	return c.profiles[DefaultProfile], false
}

// Default returns the default profile's parameter set.
func (c *Catalog) Default() model.ParameterSet {
	return c.profiles[DefaultProfile]
}

// Labels returns the profile labels in sorted order.
func (c *Catalog) Labels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}

// Defaults returns the neutral parameter set every profile starts from.
func Defaults() model.ParameterSet {
	return model.ParameterSet{
		HighpassHz: 30,
		LowpassHz:  20000,
		EQBands: [model.EQBandCount]model.EQBand{
			eqBand("sub_bass", 45, 0, 1.2),
			eqBand("bass", 85, 0, 1.3),
			eqBand("low_mid", 200, 0, 2.0),
			eqBand("mid", 1200, 0, 1.4),
			eqBand("high_mid", 3200, 0, 1.6),
			eqBand("presence", 5500, 0, 1.8),
			eqBand("air", 12000, 0, 2.0),
		},
		Multiband: [model.MultibandCount]model.CompressorSettings{
			{ThresholdDB: -20, Ratio: 2.0, AttackMs: 10, ReleaseMs: 100},
			{ThresholdDB: -18, Ratio: 2.5, AttackMs: 5, ReleaseMs: 50},
			{ThresholdDB: -15, Ratio: 3.0, AttackMs: 2, ReleaseMs: 25},
		},
		Bus:                 model.CompressorSettings{ThresholdDB: -8, Ratio: 2.0, AttackMs: 3, ReleaseMs: 30},
		StereoWidth:         1.0,
		BassMonoHz:          80,
		SaturationAmount:    0.05,
		HarmonicEnhancement: 0.02,
		LimiterCeilingDB:    -0.8,
		LimiterReleaseMs:    35,
		TargetLUFS:          -14.0,
	}
}

func eqBand(name string, freqHz, gainDB, q float64) model.EQBand {
	return model.EQBand{Name: name, FreqHz: freqHz, GainDB: gainDB, Q: q}
}

// Loud, bright, radio-ready. The default.
func modernPopProfile() model.ParameterSet {
	p := Defaults()
	p.TargetLUFS = -13.5
	p.EQBands = [model.EQBandCount]model.EQBand{
		eqBand("sub_bass", 40, -1.0, 1.5),
		eqBand("bass", 80, 0.8, 1.3),
		eqBand("low_mid", 180, -0.5, 2.2),
		eqBand("mid", 1200, 1.0, 1.4),
		eqBand("high_mid", 3000, 1.5, 1.6),
		eqBand("presence", 5500, 1.2, 1.8),
		eqBand("air", 12000, 0.8, 2.0),
	}
	p.Multiband = [model.MultibandCount]model.CompressorSettings{
		{ThresholdDB: -18, Ratio: 2.5, AttackMs: 8, ReleaseMs: 80},
		{ThresholdDB: -16, Ratio: 3.0, AttackMs: 3, ReleaseMs: 40},
		{ThresholdDB: -14, Ratio: 3.5, AttackMs: 1, ReleaseMs: 20},
	}
	p.StereoWidth = 1.15
	p.SaturationAmount = 0.06
	p.LimiterCeilingDB = -0.5
	p.LimiterReleaseMs = 30
	return p
}

// Hip-hop and trap: heavy lows kept mono, pushed loud.
func bassHeavyModernProfile() model.ParameterSet {
	p := Defaults()
	p.TargetLUFS = -12.0
	p.EQBands = [model.EQBandCount]model.EQBand{
		eqBand("sub_bass", 35, 2.5, 1.2),
		eqBand("bass", 85, 2.0, 1.3),
		eqBand("low_mid", 200, -1.0, 2.1),
		eqBand("mid", 1000, 0.5, 1.4),
		eqBand("high_mid", 3500, 1.8, 1.6),
		eqBand("presence", 6000, 1.0, 1.8),
		eqBand("air", 10000, 0.5, 2.0),
	}
	p.Multiband = [model.MultibandCount]model.CompressorSettings{
		{ThresholdDB: -15, Ratio: 3.0, AttackMs: 12, ReleaseMs: 100},
		{ThresholdDB: -14, Ratio: 2.8, AttackMs: 4, ReleaseMs: 45},
		{ThresholdDB: -12, Ratio: 3.2, AttackMs: 1, ReleaseMs: 25},
	}
	p.StereoWidth = 1.0
	p.BassMonoHz = 120
	p.SaturationAmount = 0.08
	p.LimiterCeilingDB = -0.3
	p.LimiterReleaseMs = 25
	return p
}

// R&B and soul: forward vocals, easy dynamics.
func smoothVocalFocusProfile() model.ParameterSet {
	p := Defaults()
	p.TargetLUFS = -15.0
	p.EQBands = [model.EQBandCount]model.EQBand{
		eqBand("sub_bass", 40, -0.5, 1.5),
		eqBand("bass", 80, 1.0, 1.2),
		eqBand("low_mid", 180, -0.8, 2.2),
		eqBand("mid", 1000, 1.5, 1.3),
		eqBand("high_mid", 2800, 2.2, 1.5),
		eqBand("presence", 5000, 2.0, 1.7),
		eqBand("air", 10000, 1.2, 2.0),
	}
	p.Multiband = [model.MultibandCount]model.CompressorSettings{
		{ThresholdDB: -20, Ratio: 2.0, AttackMs: 15, ReleaseMs: 120},
		{ThresholdDB: -18, Ratio: 2.2, AttackMs: 6, ReleaseMs: 60},
		{ThresholdDB: -16, Ratio: 2.8, AttackMs: 2, ReleaseMs: 35},
	}
	p.StereoWidth = 1.2
	p.SaturationAmount = 0.04
	p.LimiterCeilingDB = -0.8
	p.LimiterReleaseMs = 45
	p.PreserveDynamics = true
	return p
}

// Drill and aggressive urban styles: punchy and saturated.
func aggressiveUrbanProfile() model.ParameterSet {
	p := Defaults()
	p.TargetLUFS = -11.5
	p.EQBands = [model.EQBandCount]model.EQBand{
		eqBand("sub_bass", 45, 1.8, 1.2),
		eqBand("bass", 90, 1.5, 1.3),
		eqBand("low_mid", 200, -0.5, 2.0),
		eqBand("mid", 1200, 0.8, 1.4),
		eqBand("high_mid", 3500, 2.5, 1.5),
		eqBand("presence", 6000, 2.0, 1.7),
		eqBand("air", 12000, 1.0, 1.9),
	}
	p.Multiband = [model.MultibandCount]model.CompressorSettings{
		{ThresholdDB: -16, Ratio: 3.2, AttackMs: 8, ReleaseMs: 70},
		{ThresholdDB: -14, Ratio: 3.5, AttackMs: 2, ReleaseMs: 35},
		{ThresholdDB: -12, Ratio: 4.0, AttackMs: 1, ReleaseMs: 20},
	}
	p.StereoWidth = 1.05
	p.SaturationAmount = 0.1
	p.HarmonicEnhancement = 0.05
	p.LimiterCeilingDB = -0.2
	p.LimiterReleaseMs = 20
	return p
}

// Amapiano: wide image with the log drums anchored below 90 Hz.
func logDrumEmphasisProfile() model.ParameterSet {
	p := Defaults()
	p.TargetLUFS = -12.5
	p.EQBands = [model.EQBandCount]model.EQBand{
		eqBand("sub_bass", 45, 2.2, 1.1),
		eqBand("bass", 85, 1.8, 1.3),
		eqBand("low_mid", 200, -1.2, 2.1),
		eqBand("mid", 1200, 0.8, 1.4),
		eqBand("high_mid", 3200, 1.5, 1.6),
		eqBand("presence", 5500, 0.6, 1.8),
		eqBand("air", 12000, 1.1, 1.9),
	}
	p.Multiband = [model.MultibandCount]model.CompressorSettings{
		{ThresholdDB: -18, Ratio: 2.8, AttackMs: 15, ReleaseMs: 120},
		{ThresholdDB: -16, Ratio: 2.2, AttackMs: 8, ReleaseMs: 60},
		{ThresholdDB: -12, Ratio: 2.5, AttackMs: 3, ReleaseMs: 35},
	}
	p.StereoWidth = 1.35
	p.BassMonoHz = 90
	p.SaturationAmount = 0.08
	p.LimiterCeilingDB = -0.8
	p.LimiterReleaseMs = 45
	return p
}

// Ballads and acoustic material: keep the dynamics.
func dynamicPreservationProfile() model.ParameterSet {
	p := Defaults()
	p.TargetLUFS = -16.0
	p.EQBands = [model.EQBandCount]model.EQBand{
		eqBand("sub_bass", 35, -1.5, 1.8),
		eqBand("bass", 80, 0.5, 1.2),
		eqBand("low_mid", 180, -0.8, 2.2),
		eqBand("mid", 1000, 1.2, 1.3),
		eqBand("high_mid", 2800, 2.1, 1.5),
		eqBand("presence", 5000, 1.8, 1.7),
		eqBand("air", 10000, 1.5, 2.0),
	}
	p.Multiband = [model.MultibandCount]model.CompressorSettings{
		{ThresholdDB: -24, Ratio: 1.8, AttackMs: 25, ReleaseMs: 200},
		{ThresholdDB: -20, Ratio: 2.0, AttackMs: 12, ReleaseMs: 100},
		{ThresholdDB: -18, Ratio: 2.2, AttackMs: 5, ReleaseMs: 60},
	}
	p.Bus = model.CompressorSettings{ThresholdDB: -12, Ratio: 1.4, AttackMs: 8, ReleaseMs: 80}
	p.StereoWidth = 1.15
	p.SaturationAmount = 0.03
	p.LimiterCeilingDB = -1.5
	p.LimiterReleaseMs = 80
	p.PreserveDynamics = true
	p.GentleProcessing = true
	return p
}
