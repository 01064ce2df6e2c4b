package template

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/manngobeh2006/oneclick-master/logger"
	"github.com/manngobeh2006/oneclick-master/model"
)

// MinSamples is the smallest corpus a genre template may be derived from.
// Below it a genre is reported absent, never as a zeroed template.
const MinSamples = 5

// SampleSource supplies the reference tracks for one genre. The corpus
// repository satisfies this.
type SampleSource interface {
	FetchGenreSamples(ctx context.Context, genre string) ([]model.ReferenceTrack, error)
}

// Store lazily derives genre templates from a sample source and caches them.
// Reads never block: the cache is an immutable snapshot map swapped
// atomically, so a reader always sees a template derived in a single
// aggregation pass. Writers serialize on a mutex; when two derivations race,
// the last swap wins and either result is valid.
type Store struct {
	source SampleSource

	mu       sync.Mutex
	snapshot atomic.Pointer[map[string]entry]
}

// entry caches the aggregation outcome for one genre. ok is false when the
// genre had fewer than MinSamples at derivation time; the miss is cached
// until the corpus changes.
type entry struct {
	template model.GenreTemplate
	ok       bool
}

// NewStore creates an empty template store over the source.
func NewStore(source SampleSource) *Store {
	s := &Store{source: source}
	empty := make(map[string]entry)
	s.snapshot.Store(&empty)
	return s
}

// Get returns the template for a genre, deriving it on first request.
// The second return is false when the genre has too few samples; an error
// means the source failed and says nothing about the genre's presence.
func (s *Store) Get(ctx context.Context, genre string) (model.GenreTemplate, bool, error) {
	key := model.NormalizeGenre(genre)
	if key == "" {
		return model.GenreTemplate{}, false, nil
	}

	snap := *s.snapshot.Load()
	if e, cached := snap[key]; cached {
		return e.template, e.ok, nil
	}

	samples, err := s.source.FetchGenreSamples(ctx, key)
	if err != nil {
		return model.GenreTemplate{}, false, fmt.Errorf("failed to fetch %q samples: %w", key, err)
	}

	e := aggregate(key, samples)
	s.store(key, e)
	if e.ok {
		logger.Info("genre template derived",
			logger.String("genre", key),
			logger.Int("samples", e.template.SampleCount),
			logger.Float64("targetLufs", e.template.TargetLUFS))
	} else {
		logger.Debug("genre below template threshold",
			logger.String("genre", key),
			logger.Int("samples", len(samples)))
	}
	return e.template, e.ok, nil
}

// Refresh drops the cached entry for a genre so the next Get re-derives it.
func (s *Store) Refresh(genre string) {
	key := model.NormalizeGenre(genre)

	s.mu.Lock()
	defer s.mu.Unlock()

	old := *s.snapshot.Load()
	if _, cached := old[key]; !cached {
		return
	}
	next := make(map[string]entry, len(old))
	for k, v := range old {
		if k != key {
			next[k] = v
		}
	}
	s.snapshot.Store(&next)
}

// Invalidate drops every cached entry.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	empty := make(map[string]entry)
	s.snapshot.Store(&empty)
}

// store publishes a new snapshot containing e. Readers keep the previous
// snapshot until the swap completes.
func (s *Store) store(key string, e entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := *s.snapshot.Load()
	next := make(map[string]entry, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	next[key] = e
	s.snapshot.Store(&next)
}

// aggregate derives a genre template from its samples, or an absent entry
// when there are too few.
func aggregate(genre string, samples []model.ReferenceTrack) entry {
	if len(samples) < MinSamples {
		return entry{}
	}

	n := float64(len(samples))
	var lufs, dynamicRange, bass, high, width float64
	profiles := make(map[string]int)
	for _, s := range samples {
		m := s.Measurement
		lufs += m.IntegratedLUFS
		dynamicRange += m.DynamicRangeDB
		bass += m.BassEmphasis
		high += m.HighEmphasis
		width += m.StereoWidth
		if s.Profile != "" {
			profiles[s.Profile]++
		}
	}

	tpl := model.GenreTemplate{
		Genre:           genre,
		SampleCount:     len(samples),
		TargetLUFS:      lufs / n,
		DynamicRangeDB:  dynamicRange / n,
		BassEmphasis:    bass / n,
		HighEmphasis:    high / n,
		StereoWidth:     width / n,
		DominantProfile: dominantProfile(profiles),
	}
	tpl.RecommendedRatio = recommendRatio(tpl.DynamicRangeDB)
	return entry{template: tpl, ok: true}
}

// dominantProfile picks the most frequent label. Ties break toward the
// alphabetically first label so derivation is deterministic.
func dominantProfile(counts map[string]int) string {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	best := ""
	bestCount := 0
	for _, label := range labels {
		if counts[label] > bestCount {
			best = label
			bestCount = counts[label]
		}
	}
	return best
}

// recommendRatio maps the genre's mean dynamic range to a multiband
// compression ratio: the more dynamic the material, the gentler the ratio.
func recommendRatio(dynamicRange float64) float64 {
	switch {
	case dynamicRange > 10:
		return 1.8
	case dynamicRange > 6:
		return 2.5
	default:
		return 3.2
	}
}
