package repository

import (
	"context"
	"testing"

	"github.com/manngobeh2006/oneclick-master/model"
)

func TestMemoryCorpusGenreMatching(t *testing.T) {
	repo := NewMemoryCorpusRepository()
	ctx := context.Background()

	tracks := []model.ReferenceTrack{
		{ID: "a", FileHash: "h1", Genre: "Trap"},
		{ID: "b", FileHash: "h2", Genre: "  trap "},
		{ID: "c", FileHash: "h3", Genre: "amapiano"},
	}
	for i := range tracks {
		if err := repo.Store(ctx, &tracks[i]); err != nil {
			t.Fatalf("Store(%s): %v", tracks[i].ID, err)
		}
	}

	samples, err := repo.FetchGenreSamples(ctx, "TRAP")
	if err != nil {
		t.Fatalf("FetchGenreSamples: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("got %d trap samples, want 2", len(samples))
	}
	for _, s := range samples {
		if s.Genre != "trap" {
			t.Errorf("stored genre = %q, want normalized %q", s.Genre, "trap")
		}
	}

	none, err := repo.FetchGenreSamples(ctx, "drill")
	if err != nil {
		t.Fatalf("FetchGenreSamples(drill): %v", err)
	}
	if len(none) != 0 {
		t.Errorf("got %d drill samples, want 0", len(none))
	}
}

func TestMemoryCorpusDuplicateHash(t *testing.T) {
	repo := NewMemoryCorpusRepository()
	ctx := context.Background()

	first := model.ReferenceTrack{ID: "a", FileHash: "same", Genre: "trap"}
	if err := repo.Store(ctx, &first); err != nil {
		t.Fatalf("Store: %v", err)
	}

	exists, err := repo.ExistsByHash(ctx, "same")
	if err != nil {
		t.Fatalf("ExistsByHash: %v", err)
	}
	if !exists {
		t.Error("ExistsByHash = false after Store, want true")
	}

	dup := model.ReferenceTrack{ID: "b", FileHash: "same", Genre: "trap"}
	if err := repo.Store(ctx, &dup); err == nil {
		t.Error("Store with duplicate hash succeeded, want error")
	}
}

func TestMemoryCorpusListGenres(t *testing.T) {
	repo := NewMemoryCorpusRepository()
	ctx := context.Background()

	for _, tr := range []model.ReferenceTrack{
		{ID: "1", FileHash: "a", Genre: "trap"},
		{ID: "2", FileHash: "b", Genre: "trap"},
		{ID: "3", FileHash: "c", Genre: "amapiano"},
	} {
		track := tr
		if err := repo.Store(ctx, &track); err != nil {
			t.Fatalf("Store: %v", err)
		}
	}

	counts, err := repo.ListGenres(ctx)
	if err != nil {
		t.Fatalf("ListGenres: %v", err)
	}

	want := []model.GenreCount{
		{Genre: "amapiano", SampleCount: 1},
		{Genre: "trap", SampleCount: 2},
	}
	if len(counts) != len(want) {
		t.Fatalf("got %d genres, want %d", len(counts), len(want))
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("counts[%d] = %+v, want %+v", i, counts[i], want[i])
		}
	}

	total, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if total != 3 {
		t.Errorf("Count = %d, want 3", total)
	}
}
