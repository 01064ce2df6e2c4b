package repository

import (
	"context"

	"github.com/manngobeh2006/oneclick-master/model"

	"gorm.io/gorm"
)

// CorpusRepository is the persistence contract for the reference corpus.
// Genre matching is exact and case-insensitive; implementations store and
// query lowercased genre labels.
type CorpusRepository interface {
	Store(ctx context.Context, track *model.ReferenceTrack) error
	FetchGenreSamples(ctx context.Context, genre string) ([]model.ReferenceTrack, error)
	ListGenres(ctx context.Context) ([]model.GenreCount, error)
	ExistsByHash(ctx context.Context, fileHash string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// gormCorpusRepository is the MySQL-backed implementation.
type gormCorpusRepository struct {
	db *gorm.DB
}

// NewGormCorpusRepository creates a GORM corpus repository.
func NewGormCorpusRepository(db *gorm.DB) CorpusRepository {
	return &gormCorpusRepository{db: db}
}

// Store inserts one reference track.
func (r *gormCorpusRepository) Store(ctx context.Context, track *model.ReferenceTrack) error {
	track.Genre = model.NormalizeGenre(track.Genre)
	return r.db.WithContext(ctx).Create(track).Error
}

// FetchGenreSamples returns every reference track labeled with the genre.
func (r *gormCorpusRepository) FetchGenreSamples(ctx context.Context, genre string) ([]model.ReferenceTrack, error) {
	var tracks []model.ReferenceTrack
	err := r.db.WithContext(ctx).
		Where("genre = ?", model.NormalizeGenre(genre)).
		Order("created_at").
		Find(&tracks).Error
	if err != nil {
		return nil, err
	}
	return tracks, nil
}

// ListGenres returns per-genre sample counts, ordered by genre.
func (r *gormCorpusRepository) ListGenres(ctx context.Context) ([]model.GenreCount, error) {
	var counts []model.GenreCount
	err := r.db.WithContext(ctx).
		Model(&model.ReferenceTrack{}).
		Select("genre, COUNT(*) AS sample_count").
		Group("genre").
		Order("genre").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// ExistsByHash reports whether a track with the content hash is stored.
func (r *gormCorpusRepository) ExistsByHash(ctx context.Context, fileHash string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ReferenceTrack{}).
		Where("file_hash = ?", fileHash).
		Count(&count).Error
	return count > 0, err
}

// Count returns the total number of reference tracks.
func (r *gormCorpusRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ReferenceTrack{}).
		Count(&count).Error
	return count, err
}
