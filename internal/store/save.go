package store

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/DaanHessen/cramweek/internal/engine"
)

// SaveVersion is bumped when the blob layout changes incompatibly.
const SaveVersion = 1

// SaveBlob is the serialized form of one save slot.
type SaveBlob struct {
	Version int              `json:"version"`
	SavedAt time.Time        `json:"savedAt"`
	State   engine.GameState `json:"state"`
}

// EncodeSave renders s as a versioned JSON blob.
func EncodeSave(s engine.GameState, now time.Time) ([]byte, error) {
	b, err := json.Marshal(SaveBlob{Version: SaveVersion, SavedAt: now.UTC(), State: s})
	if err != nil {
		return nil, errors.Wrap(err, "encode save")
	}
	return b, nil
}

// DecodeSave parses a blob on top of a fresh default state, so fields missing from
// an older save keep their defaults, then normalizes the result.
func DecodeSave(data []byte, c *engine.Catalog) (engine.GameState, time.Time, error) {
	blob := SaveBlob{State: engine.NewGameState(c)}
	if err := json.Unmarshal(data, &blob); err != nil {
		return engine.GameState{}, time.Time{}, errors.Wrap(err, "decode save")
	}
	if blob.Version > SaveVersion {
		return engine.GameState{}, time.Time{}, errors.Errorf("save version %d is newer than supported %d", blob.Version, SaveVersion)
	}
	blob.State.Normalize(c)
	return blob.State, blob.SavedAt, nil
}
