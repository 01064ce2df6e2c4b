// Package ingest takes analyzer output documents into the reference corpus:
// parsing, dedup by content hash, storage, and change notification. The
// watcher feeds a directory of dropped files through the same path.
package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/manngobeh2006/oneclick-master/model"

	"github.com/google/uuid"
)

// ParseAnalysis parses one analyzer JSON document into a reference track.
// The corpus assigns its own identity: the ID is always a fresh UUID, and a
// missing content hash is derived from the document bytes. Genre may be
// empty here; storing it is where a genre label becomes mandatory.
func ParseAnalysis(data []byte) (*model.ReferenceTrack, error) {
	var track model.ReferenceTrack
	if err := json.Unmarshal(data, &track); err != nil {
		return nil, fmt.Errorf("failed to parse analysis document: %w", err)
	}

	if track.Measurement == (model.TrackMeasurement{}) {
		return nil, errors.New("analysis document has no measurement")
	}

	track.ID = uuid.NewString()
	track.Genre = model.NormalizeGenre(track.Genre)
	if track.FileHash == "" {
		sum := sha256.Sum256(data)
		track.FileHash = hex.EncodeToString(sum[:])
	}
	track.CreatedAt = time.Now().UTC()
	return &track, nil
}

// LoadAnalysisFile reads and parses an analyzer JSON file. When the document
// carries no file name, the name on disk is used.
func LoadAnalysisFile(path string) (*model.ReferenceTrack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis file: %w", err)
	}

	track, err := ParseAnalysis(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if track.FileName == "" {
		track.FileName = filepath.Base(path)
	}
	return track, nil
}
