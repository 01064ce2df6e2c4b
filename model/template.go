package model

import "strings"

// NormalizeGenre canonicalizes a genre label for matching: lowercased, with
// surrounding whitespace removed.
func NormalizeGenre(genre string) string {
	return strings.ToLower(strings.TrimSpace(genre))
}

// GenreTemplate aggregates the reference corpus for one genre. Templates are
// derived data: they exist only while the genre has enough samples and are
// recomputed whenever the corpus changes.
type GenreTemplate struct {
	Genre            string  `json:"genre"`
	SampleCount      int     `json:"sampleCount"`
	TargetLUFS       float64 `json:"targetLufs"`
	DynamicRangeDB   float64 `json:"dynamicRangeDb"`
	BassEmphasis     float64 `json:"bassEmphasis"`
	HighEmphasis     float64 `json:"highEmphasis"`
	StereoWidth      float64 `json:"stereoWidth"`
	DominantProfile  string  `json:"dominantProfile"`
	RecommendedRatio float64 `json:"recommendedRatio"`
}

// GenreCount is one row of the corpus genre overview.
type GenreCount struct {
	Genre       string `json:"genre"`
	SampleCount int64  `json:"sampleCount"`
}
