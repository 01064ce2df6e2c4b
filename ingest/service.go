package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/manngobeh2006/oneclick-master/cache"
	"github.com/manngobeh2006/oneclick-master/logger"
	"github.com/manngobeh2006/oneclick-master/model"
	"github.com/manngobeh2006/oneclick-master/repository"
)

// Service stores parsed analyses into the corpus, primes the analysis cache
// and fans out genre change notifications. Cache and events may be nil when
// Redis is not configured; both degrade to no-ops.
type Service struct {
	repo     repository.CorpusRepository
	analyses *cache.AnalysisCache
	events   *cache.CorpusEvents
}

// NewService wires an ingest service over the given corpus.
func NewService(repo repository.CorpusRepository, analyses *cache.AnalysisCache, events *cache.CorpusEvents) *Service {
	return &Service{repo: repo, analyses: analyses, events: events}
}

// IngestFile parses one analyzer file and stores it. The second return
// reports whether the track was actually stored; a content hash already in
// the corpus returns the parsed track with stored=false.
func (s *Service) IngestFile(ctx context.Context, path string) (*model.ReferenceTrack, bool, error) {
	track, err := LoadAnalysisFile(path)
	if err != nil {
		return nil, false, err
	}
	return s.Ingest(ctx, track)
}

// Ingest stores a parsed reference track, deduplicating by content hash.
func (s *Service) Ingest(ctx context.Context, track *model.ReferenceTrack) (*model.ReferenceTrack, bool, error) {
	if track.Genre == "" {
		return nil, false, errors.New("analysis document has no genre label")
	}

	// A cache hit means this exact content was ingested before.
	if cached, err := s.analyses.Get(ctx, track.FileHash); err != nil {
		logger.Warn("analysis cache lookup failed",
			logger.String("hash", track.FileHash),
			logger.ErrorField(err))
	} else if cached != nil {
		return cached, false, nil
	}

	exists, err := s.repo.ExistsByHash(ctx, track.FileHash)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check corpus for hash %s: %w", track.FileHash, err)
	}
	if exists {
		if err := s.analyses.Set(ctx, track); err != nil {
			logger.Warn("failed to cache analysis", logger.ErrorField(err))
		}
		return track, false, nil
	}

	if err := s.repo.Store(ctx, track); err != nil {
		return nil, false, fmt.Errorf("failed to store reference track: %w", err)
	}

	if err := s.analyses.Set(ctx, track); err != nil {
		logger.Warn("failed to cache analysis", logger.ErrorField(err))
	}
	if err := s.events.PublishGenreChanged(ctx, track.Genre); err != nil {
		logger.Warn("failed to publish corpus change",
			logger.String("genre", track.Genre),
			logger.ErrorField(err))
	}

	logger.Info("reference track ingested",
		logger.String("id", track.ID),
		logger.String("genre", track.Genre),
		logger.String("file", track.FileName))
	return track, true, nil
}
