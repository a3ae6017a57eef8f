// Package snapshot persists decoded inventories so they can be compared later.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/valheimsave/pkg/itemdata"
)

var (
	// ErrNotFound is returned when no snapshot has the requested id
	ErrNotFound = errors.New("snapshot not found")
	// ErrInvalidID is returned when an id is not a valid KSUID
	ErrInvalidID = errors.New("invalid snapshot id")
)

const keyPrefix = "snapshot/"

// Snapshot is a labelled inventory captured at a point in time
type Snapshot struct {
	ID        string             `json:"id"`
	Label     string             `json:"label"`
	CreatedAt time.Time          `json:"created_at"`
	Inventory itemdata.Inventory `json:"inventory"`
}

// Store keeps snapshots in a pebble database keyed by KSUID
type Store struct {
	db *pebble.DB
}

// Open opens or creates a snapshot store in dir
func Open(dir string) (*Store, error) {
	return OpenWithOptions(dir, &pebble.Options{})
}

// OpenWithOptions opens a store with explicit pebble options
func OpenWithOptions(dir string, opts *pebble.Options) (*Store, error) {
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}
	return &Store{db: db}, nil
}

func keyFor(id ksuid.KSUID) []byte {
	return append([]byte(keyPrefix), id.String()...)
}

func parseID(id string) (ksuid.KSUID, error) {
	parsed, err := ksuid.Parse(id)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	return parsed, nil
}

// Create stores inv under a new id
func (s *Store) Create(label string, inv *itemdata.Inventory) (*Snapshot, error) {
	now := time.Now().UTC()
	id, err := ksuid.NewRandomWithTime(now)
	if err != nil {
		return nil, fmt.Errorf("failed to generate snapshot id: %w", err)
	}

	snap := &Snapshot{
		ID:        id.String(),
		Label:     label,
		CreatedAt: now,
		Inventory: *inv,
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := s.db.Set(keyFor(id), data, pebble.Sync); err != nil {
		return nil, fmt.Errorf("failed to write snapshot: %w", err)
	}
	return snap, nil
}

// Get loads one snapshot
func (s *Store) Get(id string) (*Snapshot, error) {
	parsed, err := parseID(id)
	if err != nil {
		return nil, err
	}

	data, closer, err := s.db.Get(keyFor(parsed))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	defer closer.Close()

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot %s: %w", id, err)
	}
	return &snap, nil
}

// List returns all snapshots ordered by id, which orders them by creation second
func (s *Store) List() ([]*Snapshot, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(keyPrefix),
		UpperBound: prefixEnd([]byte(keyPrefix)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer iter.Close()

	var out []*Snapshot
	for iter.First(); iter.Valid(); iter.Next() {
		var snap Snapshot
		if err := json.Unmarshal(iter.Value(), &snap); err != nil {
			return nil, fmt.Errorf("failed to unmarshal snapshot %s: %w", iter.Key(), err)
		}
		out = append(out, &snap)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return out, nil
}

// Delete removes a snapshot
func (s *Store) Delete(id string) error {
	parsed, err := parseID(id)
	if err != nil {
		return err
	}

	key := keyFor(parsed)
	_, closer, err := s.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	closer.Close()

	return s.db.Delete(key, pebble.Sync)
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	end[len(end)-1]++
	return end
}
