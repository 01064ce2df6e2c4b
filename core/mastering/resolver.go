package mastering

import (
	"context"
	"math"

	"github.com/manngobeh2006/oneclick-master/logger"
	"github.com/manngobeh2006/oneclick-master/model"
)

// Fallback reports a degradation taken during resolution. Fallbacks are
// observable outcomes, not errors: resolution always yields a usable set.
type Fallback string

const (
	// FallbackUnknownProfile: the profile hint named no catalog profile, or
	// was empty with no template to supply one. The default profile was used.
	FallbackUnknownProfile Fallback = "unknown_profile"

	// FallbackProfileFromGenre: no profile hint was given, so the genre
	// template's dominant profile served as the base.
	FallbackProfileFromGenre Fallback = "profile_from_genre"

	// FallbackUnknownGenre: the genre has no template (unknown or below the
	// sample threshold). The genre overlay was skipped.
	FallbackUnknownGenre Fallback = "unknown_genre"

	// FallbackCorpusUnavailable: the corpus could not be queried. The genre
	// overlay was skipped.
	FallbackCorpusUnavailable Fallback = "corpus_unavailable"
)

// TemplateProvider supplies genre templates. The template store satisfies it.
type TemplateProvider interface {
	Get(ctx context.Context, genre string) (model.GenreTemplate, bool, error)
	Refresh(genre string)
}

// Resolver turns a track measurement plus genre and profile hints into a
// concrete parameter set. Resolution is deterministic, does no I/O beyond
// the template lookup, and never fails: bad hints degrade and are reported.
type Resolver struct {
	catalog   *Catalog
	templates TemplateProvider
}

// NewResolver creates a resolver over a profile catalog and template source.
func NewResolver(catalog *Catalog, templates TemplateProvider) *Resolver {
	return &Resolver{catalog: catalog, templates: templates}
}

// Resolve runs the three passes in order: base profile selection, genre
// overlay, track overlay. Each pass adjusts the previous result; the hard
// bounds are re-applied once at the end, so later passes may rely on earlier
// values without re-clamping.
func (r *Resolver) Resolve(ctx context.Context, m model.TrackMeasurement, genreHint, profileHint string) (model.ParameterSet, []Fallback) {
	var fallbacks []Fallback

	tpl, tplOK, tplErr := r.templates.Get(ctx, genreHint)
	if tplErr != nil {
		logger.Warn("corpus unavailable, resolving without genre overlay",
			logger.String("genre", genreHint),
			logger.ErrorField(tplErr))
	}

	// Pass 1: base profile.
	var params model.ParameterSet
	switch {
	case profileHint != "":
		var known bool
		params, known = r.catalog.Get(profileHint)
		if !known {
			fallbacks = append(fallbacks, FallbackUnknownProfile)
		}
	case tplOK && tpl.DominantProfile != "":
		var known bool
		params, known = r.catalog.Get(tpl.DominantProfile)
		fallbacks = append(fallbacks, FallbackProfileFromGenre)
		if !known {
			fallbacks = append(fallbacks, FallbackUnknownProfile)
		}
	default:
		params = r.catalog.Default()
		fallbacks = append(fallbacks, FallbackUnknownProfile)
	}

	// Pass 2: genre overlay.
	switch {
	case tplErr != nil:
		fallbacks = append(fallbacks, FallbackCorpusUnavailable)
	case !tplOK:
		fallbacks = append(fallbacks, FallbackUnknownGenre)
	default:
		params = applyGenreTemplate(params, tpl)
	}

	// Pass 3: track overlay.
	params = applyTrackOverlay(params, m)

	return clampParameterSet(params), fallbacks
}

// applyGenreTemplate moves the base toward what the genre's reference corpus
// actually sounds like.
func applyGenreTemplate(p model.ParameterSet, tpl model.GenreTemplate) model.ParameterSet {
	p.TargetLUFS = tpl.TargetLUFS

	if tpl.DynamicRangeDB > 10 {
		p.PreserveDynamics = true
		p.GentleProcessing = true
	}

	p.StereoWidth = clamp(tpl.StereoWidth, model.StereoWidthMin, model.StereoWidthMax)

	if boost := tpl.BassEmphasis - 0.3; boost > 0 {
		p.EQBands[model.BandBass].GainDB += boost
		p.EQBands[model.BandSubBass].GainDB += boost * 0.7
	}
	if boost := tpl.HighEmphasis - 0.3; boost > 0 {
		p.EQBands[model.BandPresence].GainDB += boost
		p.EQBands[model.BandAir].GainDB += boost * 0.8
	}

	if tpl.RecommendedRatio > 0 {
		for i := range p.Multiband {
			p.Multiband[i].Ratio = tpl.RecommendedRatio
		}
	}

	return p
}

// applyTrackOverlay corrects for what this particular track needs, measured
// against the profile-plus-genre baseline.
func applyTrackOverlay(p model.ParameterSet, m model.TrackMeasurement) model.ParameterSet {
	// Loudness: hot masters get a soft ceiling and a target just below the
	// source; quiet ones still deserve a competitive target.
	if m.IntegratedLUFS > -12 {
		p.GentleProcessing = true
		p.LimiterCeilingDB = math.Max(-1.0, p.LimiterCeilingDB)
		p.TargetLUFS = math.Max(-13.0, m.IntegratedLUFS-1.0)
	} else if m.IntegratedLUFS < -20 {
		p.TargetLUFS = math.Min(-13.0, p.TargetLUFS)
	}

	// Dynamics: very dynamic material is preserved, already-squashed
	// material is not pushed further.
	if m.DynamicRangeDB > 15 {
		p.PreserveDynamics = true
		p.GentleProcessing = true
		for i := range p.Multiband {
			p.Multiband[i].Ratio *= 0.8
			p.Multiband[i].ThresholdDB -= 2
		}
	} else if m.DynamicRangeDB < 4 {
		p.GentleProcessing = true
		p.TargetLUFS = math.Max(-15.0, p.TargetLUFS)
	}

	// Spectral balance.
	if m.BassEmphasis > 0.45 {
		p.EQBands[model.BandLowMid].GainDB -= 1.0
		p.BassMonoHz = math.Min(120, p.BassMonoHz+20)
	} else if m.BassEmphasis < 0.25 {
		p.EQBands[model.BandBass].GainDB += 1.0
		p.EQBands[model.BandSubBass].GainDB += 0.5
	}

	if m.HighEmphasis > 0.4 {
		p.EQBands[model.BandPresence].GainDB = math.Max(0.0, p.EQBands[model.BandPresence].GainDB-0.5)
	} else if m.HighEmphasis < 0.2 {
		p.EQBands[model.BandPresence].GainDB += 1.0
		p.EQBands[model.BandAir].GainDB += 0.8
	}

	// Stereo image.
	if m.StereoWidth > 0.8 {
		p.StereoWidth *= 0.9
	} else if m.StereoWidth < 0.4 {
		p.StereoWidth = math.Min(1.3, p.StereoWidth+0.2)
	}

	return p
}

// clampParameterSet applies the hard bounds and pulls non-finite values back
// to the neutral defaults. It runs exactly once, as the final resolution
// step, whatever the overlays produced.
func clampParameterSet(p model.ParameterSet) model.ParameterSet {
	def := Defaults()

	p.HighpassHz = sanitizeFloat(p.HighpassHz, def.HighpassHz)
	p.LowpassHz = sanitizeFloat(p.LowpassHz, def.LowpassHz)
	p.TargetLUFS = clamp(sanitizeFloat(p.TargetLUFS, def.TargetLUFS), model.TargetLUFSMin, model.TargetLUFSMax)
	p.StereoWidth = clamp(sanitizeFloat(p.StereoWidth, def.StereoWidth), model.StereoWidthMin, model.StereoWidthMax)
	p.BassMonoHz = sanitizeFloat(p.BassMonoHz, def.BassMonoHz)
	p.SaturationAmount = sanitizeFloat(p.SaturationAmount, def.SaturationAmount)
	p.HarmonicEnhancement = sanitizeFloat(p.HarmonicEnhancement, def.HarmonicEnhancement)
	p.LimiterCeilingDB = sanitizeFloat(p.LimiterCeilingDB, def.LimiterCeilingDB)
	p.LimiterReleaseMs = sanitizeFloat(p.LimiterReleaseMs, def.LimiterReleaseMs)

	for i := range p.EQBands {
		band := &p.EQBands[i]
		if band.Name == "" {
			band.Name = def.EQBands[i].Name
		}
		band.FreqHz = sanitizeFloat(band.FreqHz, def.EQBands[i].FreqHz)
		band.Q = sanitizeFloat(band.Q, def.EQBands[i].Q)
		band.GainDB = clamp(sanitizeFloat(band.GainDB, 0), -model.EQGainLimitDB, model.EQGainLimitDB)
	}

	for i := range p.Multiband {
		mb := &p.Multiband[i]
		mb.ThresholdDB = sanitizeFloat(mb.ThresholdDB, def.Multiband[i].ThresholdDB)
		mb.Ratio = math.Max(model.RatioMin, sanitizeFloat(mb.Ratio, def.Multiband[i].Ratio))
		mb.AttackMs = sanitizeFloat(mb.AttackMs, def.Multiband[i].AttackMs)
		mb.ReleaseMs = sanitizeFloat(mb.ReleaseMs, def.Multiband[i].ReleaseMs)
	}

	p.Bus.ThresholdDB = sanitizeFloat(p.Bus.ThresholdDB, def.Bus.ThresholdDB)
	p.Bus.Ratio = math.Max(model.RatioMin, sanitizeFloat(p.Bus.Ratio, def.Bus.Ratio))
	p.Bus.AttackMs = sanitizeFloat(p.Bus.AttackMs, def.Bus.AttackMs)
	p.Bus.ReleaseMs = sanitizeFloat(p.Bus.ReleaseMs, def.Bus.ReleaseMs)

	return p
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sanitizeFloat replaces NaN and infinities with a safe fallback.
func sanitizeFloat(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
