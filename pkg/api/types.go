package api

import (
	"time"

	"github.com/ssargent/valheimsave/pkg/inventory"
	"github.com/ssargent/valheimsave/pkg/itemdata"
	"github.com/ssargent/valheimsave/pkg/snapshot"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Kind    string      `json:"kind,omitempty"`
}

// ParseRequest carries one base64 inventory
type ParseRequest struct {
	Data       string `json:"data"`
	BestEffort bool   `json:"best_effort,omitempty"`
}

// ParseResponse is the decoded inventory. With best_effort, Complete is false when
// decoding stopped early and the failure is described by FailedIndex, Error and Kind.
type ParseResponse struct {
	Version     int32           `json:"version"`
	Items       []itemdata.Item `json:"items"`
	Complete    bool            `json:"complete"`
	FailedIndex *int            `json:"failed_index,omitempty"`
	Error       string          `json:"error,omitempty"`
	Kind        string          `json:"kind,omitempty"`
}

// SummaryResponse is the analysis of one inventory
type SummaryResponse struct {
	Version    int32                     `json:"version"`
	Summary    inventory.Summary         `json:"summary"`
	Equipped   []itemdata.Item           `json:"equipped"`
	Damaged    []itemdata.Item           `json:"damaged"`
	Categories []inventory.CategoryItems `json:"categories"`
}

// SnapshotRequest stores a base64 inventory under a label
type SnapshotRequest struct {
	Label string `json:"label"`
	Data  string `json:"data"`
}

// SnapshotInfo describes a stored snapshot without its items
type SnapshotInfo struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
	Version   int32     `json:"version"`
	Items     int       `json:"items"`
}

func infoOf(snap *snapshot.Snapshot) SnapshotInfo {
	return SnapshotInfo{
		ID:        snap.ID,
		Label:     snap.Label,
		CreatedAt: snap.CreatedAt,
		Version:   snap.Inventory.Version,
		Items:     len(snap.Inventory.Items),
	}
}

// DiffResponse compares two snapshots
type DiffResponse struct {
	From    string            `json:"from"`
	To      string            `json:"to"`
	Changes inventory.Changes `json:"changes"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind           string
	Port           int
	APIKey         string
	ItemTrailer    int    // bytes skipped after each item record
	InventoryField string // JSON key searched by /save/inventories
	MaxBodyBytes   int64  // request body limit, 0 means DefaultMaxBodyBytes
}

// DefaultMaxBodyBytes limits request bodies when ServerConfig.MaxBodyBytes is unset
const DefaultMaxBodyBytes = 16 << 20

// SnapshotStore defines the snapshot operations used by the server
type SnapshotStore interface {
	Create(label string, inv *itemdata.Inventory) (*snapshot.Snapshot, error)
	Get(id string) (*snapshot.Snapshot, error)
	List() ([]*snapshot.Snapshot, error)
	Delete(id string) error
}
