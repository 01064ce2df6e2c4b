package mastering

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/manngobeh2006/oneclick-master/model"
)

type stubTemplates struct {
	tpl       model.GenreTemplate
	ok        bool
	err       error
	refreshed []string
}

func (s *stubTemplates) Get(ctx context.Context, genre string) (model.GenreTemplate, bool, error) {
	return s.tpl, s.ok, s.err
}

func (s *stubTemplates) Refresh(genre string) {
	s.refreshed = append(s.refreshed, genre)
}

// neutralMeasurement triggers none of the track overlay rules.
func neutralMeasurement() model.TrackMeasurement {
	return model.TrackMeasurement{
		IntegratedLUFS: -14,
		DynamicRangeDB: 8,
		BassEmphasis:   0.3,
		HighEmphasis:   0.3,
		StereoWidth:    0.7,
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestResolveGenreTemplateOverlay(t *testing.T) {
	templates := &stubTemplates{
		tpl: model.GenreTemplate{
			Genre:            "trap",
			SampleCount:      12,
			TargetLUFS:       -10.5,
			DynamicRangeDB:   5,
			BassEmphasis:     0.5,
			HighEmphasis:     0.25,
			StereoWidth:      0.9,
			DominantProfile:  ProfileBassHeavyModern,
			RecommendedRatio: 3.2,
		},
		ok: true,
	}
	r := NewResolver(NewCatalog(), templates)

	params, fallbacks := r.Resolve(context.Background(), neutralMeasurement(), "trap", ProfileBassHeavyModern)

	if len(fallbacks) != 0 {
		t.Errorf("fallbacks = %v, want none", fallbacks)
	}
	if params.TargetLUFS != -10.5 {
		t.Errorf("target = %v, want the template's -10.5", params.TargetLUFS)
	}
	if params.StereoWidth != 0.9 {
		t.Errorf("width = %v, want the template's 0.9", params.StereoWidth)
	}
	for i, mb := range params.Multiband {
		if mb.Ratio != 3.2 {
			t.Errorf("multiband[%d] ratio = %v, want recommended 3.2", i, mb.Ratio)
		}
	}
	// bass emphasis 0.5 boosts bass by 0.2 and sub bass by 0.14 over the base
	if got := params.EQBands[model.BandBass].GainDB; !approx(got, 2.2) {
		t.Errorf("bass gain = %v, want 2.2", got)
	}
	if got := params.EQBands[model.BandSubBass].GainDB; !approx(got, 2.64) {
		t.Errorf("sub bass gain = %v, want 2.64", got)
	}
	// high emphasis 0.25 is under the boost threshold
	if got := params.EQBands[model.BandPresence].GainDB; got != 1.0 {
		t.Errorf("presence gain = %v, want the base 1.0", got)
	}
	if params.PreserveDynamics {
		t.Error("dynamic range 5 must not set preserve")
	}
}

func TestResolveUnknownGenre(t *testing.T) {
	templates := &stubTemplates{ok: false}
	catalog := NewCatalog()
	r := NewResolver(catalog, templates)

	params, fallbacks := r.Resolve(context.Background(), neutralMeasurement(), "shoegaze", ProfileModernPop)

	want := []Fallback{FallbackUnknownGenre}
	if !reflect.DeepEqual(fallbacks, want) {
		t.Errorf("fallbacks = %v, want %v", fallbacks, want)
	}
	// neutral measurement, no template: the base profile passes through
	base, _ := catalog.Get(ProfileModernPop)
	if !reflect.DeepEqual(params, base) {
		t.Errorf("params diverged from the base profile\n got %+v\nwant %+v", params, base)
	}
}

func TestResolveHotMaster(t *testing.T) {
	templates := &stubTemplates{ok: false}
	r := NewResolver(NewCatalog(), templates)

	m := neutralMeasurement()
	m.IntegratedLUFS = -8

	params, fallbacks := r.Resolve(context.Background(), m, "", "")

	if !params.GentleProcessing {
		t.Error("hot master must force gentle processing")
	}
	if params.TargetLUFS != -9 {
		t.Errorf("target = %v, want -9 (one below the source)", params.TargetLUFS)
	}
	if params.LimiterCeilingDB != -0.5 {
		t.Errorf("ceiling = %v, want the default profile's -0.5 kept", params.LimiterCeilingDB)
	}

	wantFlags := []Fallback{FallbackUnknownProfile, FallbackUnknownGenre}
	if !reflect.DeepEqual(fallbacks, wantFlags) {
		t.Errorf("fallbacks = %v, want %v", fallbacks, wantFlags)
	}
}

func TestResolveQuietMaster(t *testing.T) {
	templates := &stubTemplates{ok: false}
	r := NewResolver(NewCatalog(), templates)

	m := neutralMeasurement()
	m.IntegratedLUFS = -24

	params, _ := r.Resolve(context.Background(), m, "", ProfileAggressiveUrban)

	if params.TargetLUFS != -13 {
		t.Errorf("target = %v, want -13 (quiet source capped)", params.TargetLUFS)
	}
	if params.GentleProcessing {
		t.Error("quiet source alone must not force gentle processing")
	}
}

func TestResolveProfileFromGenre(t *testing.T) {
	templates := &stubTemplates{
		tpl: model.GenreTemplate{
			Genre:            "rnb",
			SampleCount:      8,
			TargetLUFS:       -12,
			DynamicRangeDB:   8,
			BassEmphasis:     0.3,
			HighEmphasis:     0.3,
			StereoWidth:      1.2,
			DominantProfile:  ProfileSmoothVocalFocus,
			RecommendedRatio: 2.2,
		},
		ok: true,
	}
	r := NewResolver(NewCatalog(), templates)

	params, fallbacks := r.Resolve(context.Background(), neutralMeasurement(), "rnb", "")

	want := []Fallback{FallbackProfileFromGenre}
	if !reflect.DeepEqual(fallbacks, want) {
		t.Errorf("fallbacks = %v, want %v", fallbacks, want)
	}
	// the smooth vocal base shows through where the template is silent
	if params.Multiband[0].AttackMs != 15 {
		t.Errorf("low band attack = %v, want 15 from the dominant profile's base", params.Multiband[0].AttackMs)
	}
	if params.TargetLUFS != -12 {
		t.Errorf("target = %v, want the template's -12", params.TargetLUFS)
	}
	for i, mb := range params.Multiband {
		if mb.Ratio != 2.2 {
			t.Errorf("multiband[%d] ratio = %v, want 2.2", i, mb.Ratio)
		}
	}
}

func TestResolveUnknownDominantProfile(t *testing.T) {
	templates := &stubTemplates{
		tpl: model.GenreTemplate{
			Genre:           "lofi",
			SampleCount:     6,
			TargetLUFS:      -14,
			DynamicRangeDB:  8,
			StereoWidth:     1.0,
			DominantProfile: "vintage_warm",
		},
		ok: true,
	}
	r := NewResolver(NewCatalog(), templates)

	_, fallbacks := r.Resolve(context.Background(), neutralMeasurement(), "lofi", "")

	want := []Fallback{FallbackProfileFromGenre, FallbackUnknownProfile}
	if !reflect.DeepEqual(fallbacks, want) {
		t.Errorf("fallbacks = %v, want %v", fallbacks, want)
	}
}

func TestResolveUnknownProfileHint(t *testing.T) {
	templates := &stubTemplates{
		tpl: model.GenreTemplate{
			Genre:          "trap",
			SampleCount:    6,
			TargetLUFS:     -11,
			DynamicRangeDB: 6,
			StereoWidth:    1.0,
		},
		ok: true,
	}
	r := NewResolver(NewCatalog(), templates)

	params, fallbacks := r.Resolve(context.Background(), neutralMeasurement(), "trap", "no_such_profile")

	want := []Fallback{FallbackUnknownProfile}
	if !reflect.DeepEqual(fallbacks, want) {
		t.Errorf("fallbacks = %v, want %v", fallbacks, want)
	}
	// the genre overlay still applies on top of the default base
	if params.TargetLUFS != -11 {
		t.Errorf("target = %v, want the template's -11", params.TargetLUFS)
	}
}

func TestResolveCorpusUnavailable(t *testing.T) {
	templates := &stubTemplates{err: errors.New("dial tcp: connection refused")}
	r := NewResolver(NewCatalog(), templates)

	params, fallbacks := r.Resolve(context.Background(), neutralMeasurement(), "trap", ProfileModernPop)

	want := []Fallback{FallbackCorpusUnavailable}
	if !reflect.DeepEqual(fallbacks, want) {
		t.Errorf("fallbacks = %v, want %v", fallbacks, want)
	}
	// no genre overlay: the profile's own target survives
	if params.TargetLUFS != -13.5 {
		t.Errorf("target = %v, want the profile's -13.5", params.TargetLUFS)
	}
}

func TestResolveDeterministic(t *testing.T) {
	templates := &stubTemplates{
		tpl: model.GenreTemplate{
			Genre: "trap", SampleCount: 9, TargetLUFS: -11, DynamicRangeDB: 6,
			BassEmphasis: 0.45, HighEmphasis: 0.2, StereoWidth: 0.95,
			DominantProfile: ProfileBassHeavyModern, RecommendedRatio: 2.5,
		},
		ok: true,
	}
	r := NewResolver(NewCatalog(), templates)
	m := model.TrackMeasurement{
		IntegratedLUFS: -10.2, DynamicRangeDB: 4.4,
		BassEmphasis: 0.48, HighEmphasis: 0.18, StereoWidth: 0.85,
	}

	p1, f1 := r.Resolve(context.Background(), m, "trap", "")
	p2, f2 := r.Resolve(context.Background(), m, "trap", "")

	if !reflect.DeepEqual(p1, p2) {
		t.Error("identical inputs resolved to different parameters")
	}
	if !reflect.DeepEqual(f1, f2) {
		t.Errorf("identical inputs reported different fallbacks: %v vs %v", f1, f2)
	}
}

func assertWithinBounds(t *testing.T, p model.ParameterSet) {
	t.Helper()
	if p.TargetLUFS < model.TargetLUFSMin || p.TargetLUFS > model.TargetLUFSMax {
		t.Errorf("target %v out of bounds", p.TargetLUFS)
	}
	if p.StereoWidth < model.StereoWidthMin || p.StereoWidth > model.StereoWidthMax {
		t.Errorf("width %v out of bounds", p.StereoWidth)
	}
	for _, band := range p.EQBands {
		if math.Abs(band.GainDB) > model.EQGainLimitDB {
			t.Errorf("band %s gain %v over limit", band.Name, band.GainDB)
		}
		if math.IsNaN(band.GainDB) || math.IsInf(band.GainDB, 0) {
			t.Errorf("band %s gain %v not finite", band.Name, band.GainDB)
		}
	}
	for i, mb := range p.Multiband {
		if mb.Ratio < model.RatioMin {
			t.Errorf("multiband[%d] ratio %v below unity", i, mb.Ratio)
		}
	}
	if p.Bus.Ratio < model.RatioMin {
		t.Errorf("bus ratio %v below unity", p.Bus.Ratio)
	}
	if math.IsNaN(p.TargetLUFS) || math.IsNaN(p.StereoWidth) {
		t.Error("non-finite value survived the final clamp")
	}
}

func TestResolveClampsAdversarialTemplate(t *testing.T) {
	templates := &stubTemplates{
		tpl: model.GenreTemplate{
			Genre:            "broken",
			SampleCount:      7,
			TargetLUFS:       -35,
			DynamicRangeDB:   5,
			BassEmphasis:     9,
			HighEmphasis:     math.NaN(),
			StereoWidth:      3,
			RecommendedRatio: 0.2,
		},
		ok: true,
	}
	r := NewResolver(NewCatalog(), templates)

	params, _ := r.Resolve(context.Background(), neutralMeasurement(), "broken", ProfileModernPop)

	assertWithinBounds(t, params)
	if params.TargetLUFS != model.TargetLUFSMin {
		t.Errorf("target = %v, want clamped to %v", params.TargetLUFS, model.TargetLUFSMin)
	}
	for i, mb := range params.Multiband {
		if mb.Ratio != model.RatioMin {
			t.Errorf("multiband[%d] ratio = %v, want raised to unity", i, mb.Ratio)
		}
	}
	if got := params.EQBands[model.BandBass].GainDB; got != model.EQGainLimitDB {
		t.Errorf("bass gain = %v, want clamped to %v", got, model.EQGainLimitDB)
	}
}

func TestResolveNaNMeasurement(t *testing.T) {
	templates := &stubTemplates{ok: false}
	catalog := NewCatalog()
	r := NewResolver(catalog, templates)

	nan := math.NaN()
	m := model.TrackMeasurement{
		IntegratedLUFS: nan, DynamicRangeDB: nan,
		BassEmphasis: nan, HighEmphasis: nan, StereoWidth: nan,
	}

	params, _ := r.Resolve(context.Background(), m, "", ProfileLogDrumEmphasis)

	// NaN measurements fire no overlay rules; the base profile survives
	base, _ := catalog.Get(ProfileLogDrumEmphasis)
	if !reflect.DeepEqual(params, base) {
		t.Error("NaN measurement changed the resolved parameters")
	}
	assertWithinBounds(t, params)
}

func TestTrackOverlayRules(t *testing.T) {
	tests := []struct {
		name    string
		prep    func(*model.ParameterSet)
		measure func(*model.TrackMeasurement)
		check   func(*testing.T, model.ParameterSet)
	}{
		{
			name:    "hot master forces gentle and soft ceiling",
			measure: func(m *model.TrackMeasurement) { m.IntegratedLUFS = -8 },
			check: func(t *testing.T, p model.ParameterSet) {
				if !p.GentleProcessing || p.TargetLUFS != -9 || p.LimiterCeilingDB != -0.8 {
					t.Errorf("gentle=%v target=%v ceiling=%v", p.GentleProcessing, p.TargetLUFS, p.LimiterCeilingDB)
				}
			},
		},
		{
			name:    "quiet master capped at -13",
			prep:    func(p *model.ParameterSet) { p.TargetLUFS = -12 },
			measure: func(m *model.TrackMeasurement) { m.IntegratedLUFS = -24 },
			check: func(t *testing.T, p model.ParameterSet) {
				if p.TargetLUFS != -13 {
					t.Errorf("target = %v, want -13", p.TargetLUFS)
				}
			},
		},
		{
			name:    "high dynamic range eases the multiband",
			measure: func(m *model.TrackMeasurement) { m.DynamicRangeDB = 16 },
			check: func(t *testing.T, p model.ParameterSet) {
				if !p.PreserveDynamics || !p.GentleProcessing {
					t.Error("dynamics flags not set")
				}
				if !approx(p.Multiband[0].Ratio, 1.6) || p.Multiband[0].ThresholdDB != -22 {
					t.Errorf("low band = %+v, want ratio 1.6 threshold -22", p.Multiband[0])
				}
			},
		},
		{
			name:    "squashed source goes gentle",
			measure: func(m *model.TrackMeasurement) { m.DynamicRangeDB = 3 },
			check: func(t *testing.T, p model.ParameterSet) {
				if !p.GentleProcessing || p.TargetLUFS != -14 {
					t.Errorf("gentle=%v target=%v", p.GentleProcessing, p.TargetLUFS)
				}
			},
		},
		{
			name:    "bass heavy source cuts mud and widens mono floor",
			measure: func(m *model.TrackMeasurement) { m.BassEmphasis = 0.5 },
			check: func(t *testing.T, p model.ParameterSet) {
				if p.EQBands[model.BandLowMid].GainDB != -1 || p.BassMonoHz != 100 {
					t.Errorf("lowMid=%v bassMono=%v", p.EQBands[model.BandLowMid].GainDB, p.BassMonoHz)
				}
			},
		},
		{
			name:    "bass light source gets low end",
			measure: func(m *model.TrackMeasurement) { m.BassEmphasis = 0.2 },
			check: func(t *testing.T, p model.ParameterSet) {
				if p.EQBands[model.BandBass].GainDB != 1 || p.EQBands[model.BandSubBass].GainDB != 0.5 {
					t.Errorf("bass=%v sub=%v", p.EQBands[model.BandBass].GainDB, p.EQBands[model.BandSubBass].GainDB)
				}
			},
		},
		{
			name:    "bright source tames presence without cutting",
			prep:    func(p *model.ParameterSet) { p.EQBands[model.BandPresence].GainDB = 0.3 },
			measure: func(m *model.TrackMeasurement) { m.HighEmphasis = 0.45 },
			check: func(t *testing.T, p model.ParameterSet) {
				if p.EQBands[model.BandPresence].GainDB != 0 {
					t.Errorf("presence = %v, want floored at 0", p.EQBands[model.BandPresence].GainDB)
				}
			},
		},
		{
			name:    "dull source gets air",
			measure: func(m *model.TrackMeasurement) { m.HighEmphasis = 0.1 },
			check: func(t *testing.T, p model.ParameterSet) {
				if p.EQBands[model.BandPresence].GainDB != 1 || p.EQBands[model.BandAir].GainDB != 0.8 {
					t.Errorf("presence=%v air=%v", p.EQBands[model.BandPresence].GainDB, p.EQBands[model.BandAir].GainDB)
				}
			},
		},
		{
			name:    "already wide image narrows",
			prep:    func(p *model.ParameterSet) { p.StereoWidth = 1.2 },
			measure: func(m *model.TrackMeasurement) { m.StereoWidth = 0.9 },
			check: func(t *testing.T, p model.ParameterSet) {
				if !approx(p.StereoWidth, 1.08) {
					t.Errorf("width = %v, want 1.08", p.StereoWidth)
				}
			},
		},
		{
			name:    "narrow image opens up",
			prep:    func(p *model.ParameterSet) { p.StereoWidth = 1.0 },
			measure: func(m *model.TrackMeasurement) { m.StereoWidth = 0.3 },
			check: func(t *testing.T, p model.ParameterSet) {
				if !approx(p.StereoWidth, 1.2) {
					t.Errorf("width = %v, want 1.2", p.StereoWidth)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Defaults()
			if tt.prep != nil {
				tt.prep(&p)
			}
			m := neutralMeasurement()
			if tt.measure != nil {
				tt.measure(&m)
			}
			tt.check(t, applyTrackOverlay(p, m))
		})
	}
}
