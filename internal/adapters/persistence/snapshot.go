package persistence

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/coachkit/coachkit/internal/adapters/skillstore"
	"github.com/coachkit/coachkit/internal/domain/model"
)

// SnapshotVersion is the current snapshot document version. Bump it when
// the document shape changes incompatibly.
const SnapshotVersion = 1

// DefaultKey is the store key the trainer state is saved under.
const DefaultKey = "state"

// Snapshot is the versioned, self-describing persisted form of the trainer
// state: skill ratings keyed by skill id plus the ordered session history.
type Snapshot struct {
	Version  int                             `json:"version"`
	SavedAt  time.Time                       `json:"saved_at"`
	Ratings  map[string]skillstore.SkillState `json:"ratings"`
	Sessions []model.Session                 `json:"sessions"`
}

// Encode serializes the snapshot to its stored string form.
func (s Snapshot) Encode() (string, error) {
	s.Version = SnapshotVersion
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSave, err)
	}
	return string(data), nil
}

// DecodeSnapshot parses a stored snapshot document. Documents with a newer
// version than this build understands are rejected rather than half-read.
func DecodeSnapshot(value string) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal([]byte(value), &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	if s.Version > SnapshotVersion {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, s.Version)
	}
	return s, nil
}
