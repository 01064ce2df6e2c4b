package model

import "time"

// TrackMeasurement holds the analyzer output for one audio track.
// It is produced outside this service and treated as read-only fact.
type TrackMeasurement struct {
	IntegratedLUFS     float64 `json:"integratedLufs"`
	LoudnessRangeLU    float64 `json:"loudnessRangeLu"`
	DynamicRangeDB     float64 `json:"dynamicRangeDb"`
	SubBassEnergy      float64 `json:"subBassEnergy"`
	BassEnergy         float64 `json:"bassEnergy"`
	LowMidEnergy       float64 `json:"lowMidEnergy"`
	MidEnergy          float64 `json:"midEnergy"`
	HighMidEnergy      float64 `json:"highMidEnergy"`
	PresenceEnergy     float64 `json:"presenceEnergy"`
	AirEnergy          float64 `json:"airEnergy"`
	SpectralCentroidHz float64 `json:"spectralCentroidHz"`
	BassEmphasis       float64 `json:"bassEmphasis"`
	HighEmphasis       float64 `json:"highEmphasis"`
	StereoWidth        float64 `json:"stereoWidth"`
	StereoCorrelation  float64 `json:"stereoCorrelation"`
	EstimatedTempoBPM  float64 `json:"estimatedTempoBpm"`
}

// ReferenceTrack is one measured track in the reference corpus, labeled
// with the genre and the mastering profile it was finished with.
type ReferenceTrack struct {
	ID          string           `json:"id" gorm:"primaryKey;size:36"`
	FileName    string           `json:"fileName" gorm:"size:255"`
	FileHash    string           `json:"fileHash" gorm:"size:64;uniqueIndex"`
	Genre       string           `json:"genre" gorm:"size:64;index"`
	Profile     string           `json:"masteringProfile" gorm:"column:mastering_profile;size:64;index"`
	Measurement TrackMeasurement `json:"measurement" gorm:"embedded"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// TableName maps ReferenceTrack to its MySQL table.
func (ReferenceTrack) TableName() string {
	return "reference_tracks"
}
