package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/manngobeh2006/oneclick-master/model"
)

// memoryCorpusRepository keeps the corpus in process memory. Used for local
// runs without a database and as the corpus double in tests.
type memoryCorpusRepository struct {
	mu     sync.RWMutex
	tracks []model.ReferenceTrack
	hashes map[string]struct{}
}

// NewMemoryCorpusRepository creates an empty in-memory corpus.
func NewMemoryCorpusRepository() CorpusRepository {
	return &memoryCorpusRepository{hashes: make(map[string]struct{})}
}

func (r *memoryCorpusRepository) Store(ctx context.Context, track *model.ReferenceTrack) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if track.FileHash != "" {
		if _, dup := r.hashes[track.FileHash]; dup {
			return fmt.Errorf("reference track with hash %q already stored", track.FileHash)
		}
		r.hashes[track.FileHash] = struct{}{}
	}

	stored := *track
	stored.Genre = model.NormalizeGenre(stored.Genre)
	r.tracks = append(r.tracks, stored)
	return nil
}

func (r *memoryCorpusRepository) FetchGenreSamples(ctx context.Context, genre string) ([]model.ReferenceTrack, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := model.NormalizeGenre(genre)
	var samples []model.ReferenceTrack
	for _, t := range r.tracks {
		if t.Genre == key {
			samples = append(samples, t)
		}
	}
	return samples, nil
}

func (r *memoryCorpusRepository) ListGenres(ctx context.Context) ([]model.GenreCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byGenre := make(map[string]int64)
	for _, t := range r.tracks {
		byGenre[t.Genre]++
	}

	counts := make([]model.GenreCount, 0, len(byGenre))
	for genre, n := range byGenre {
		counts = append(counts, model.GenreCount{Genre: genre, SampleCount: n})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Genre < counts[j].Genre })
	return counts, nil
}

func (r *memoryCorpusRepository) ExistsByHash(ctx context.Context, fileHash string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.hashes[fileHash]
	return ok, nil
}

func (r *memoryCorpusRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.tracks)), nil
}
