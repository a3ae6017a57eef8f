package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ssargent/valheimsave/pkg/inventory"
	"github.com/ssargent/valheimsave/pkg/itemdata"
	"github.com/ssargent/valheimsave/pkg/savejson"
	"github.com/ssargent/valheimsave/pkg/snapshot"
)

// Server holds the API server state
type Server struct {
	store   SnapshotStore
	decoder *itemdata.Decoder
	config  ServerConfig
	metrics *Metrics
	logger  *slog.Logger
}

// NewServer creates a new API server
func NewServer(store SnapshotStore, config ServerConfig, metrics *Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if config.InventoryField == "" {
		config.InventoryField = savejson.DefaultField
	}
	return &Server{
		store: store,
		decoder: itemdata.NewDecoder(
			itemdata.WithItemTrailer(config.ItemTrailer),
			itemdata.WithLogger(logger),
		),
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	APIResponse
//	@Router			/health [get]
//	@Security		ApiKeyAuth
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleParse godoc
//
//	@Summary		Parse an inventory
//	@Description	Decode a base64 inventory blob into its items
//	@Tags			inventory
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ParseRequest	true	"Inventory"
//	@Success		200		{object}	APIResponse{data=ParseResponse}
//	@Failure		400		{object}	APIResponse
//	@Failure		422		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/inventory/parse [post]
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if !req.BestEffort {
		inv, ok := s.parse(w, "parse", req.Data)
		if !ok {
			return
		}
		sendSuccess(w, ParseResponse{Version: inv.Version, Items: inv.Items, Complete: true})
		return
	}

	start := time.Now()
	inv, err := s.decoder.Collect(req.Data)
	if inv == nil {
		s.metrics.RecordDecode("collect", itemdata.Kind(err), 0, time.Since(start))
		sendDecodeError(w, err)
		return
	}
	s.metrics.RecordDecode("collect", itemdata.Kind(err), len(inv.Items), time.Since(start))

	resp := ParseResponse{Version: inv.Version, Items: inv.Items, Complete: err == nil}
	var itemErr *itemdata.ItemError
	if errors.As(err, &itemErr) {
		idx := itemErr.Index
		resp.FailedIndex = &idx
		resp.Error = err.Error()
		resp.Kind = itemdata.Kind(err)
	}
	sendSuccess(w, resp)
}

// handleSummary godoc
//
//	@Summary		Summarize an inventory
//	@Description	Decode a base64 inventory and report counts, equipped, damaged and categorized items
//	@Tags			inventory
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ParseRequest	true	"Inventory"
//	@Success		200		{object}	APIResponse{data=SummaryResponse}
//	@Failure		400		{object}	APIResponse
//	@Failure		422		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/inventory/summary [post]
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	inv, ok := s.parse(w, "summary", req.Data)
	if !ok {
		return
	}

	sendSuccess(w, SummaryResponse{
		Version:    inv.Version,
		Summary:    inventory.Summarize(inv.Items),
		Equipped:   inventory.Equipped(inv.Items),
		Damaged:    inventory.Damaged(inv.Items, inventory.DefaultDamageThreshold),
		Categories: inventory.Categorize(inv.Items),
	})
}

// handleSaveInventories godoc
//
//	@Summary		Decode every inventory in a save document
//	@Description	Walk a JSON save document and decode each string stored under the inventory field
//	@Tags			inventory
//	@Accept			json
//	@Produce		json
//	@Param			field	query		string	false	"JSON key holding inventories"
//	@Success		200		{object}	APIResponse{data=[]savejson.Result}
//	@Failure		400		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/save/inventories [post]
func (s *Server) handleSaveInventories(w http.ResponseWriter, r *http.Request) {
	doc, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	field := r.URL.Query().Get("field")
	if field == "" {
		field = s.config.InventoryField
	}

	start := time.Now()
	results, err := savejson.DecodeAll(doc, field, s.decoder)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	// one duration sample per document, one counter per blob
	s.metrics.ObserveDecodeDuration("save", time.Since(start))
	for _, res := range results {
		items := 0
		if res.Inventory != nil {
			items = len(res.Inventory.Items)
		}
		s.metrics.RecordDecodeResult("save", res.Kind, items)
	}

	sendSuccess(w, results)
}

// handleCreateSnapshot godoc
//
//	@Summary		Store a snapshot
//	@Description	Decode a base64 inventory and store it under a label
//	@Tags			snapshots
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SnapshotRequest	true	"Snapshot"
//	@Success		201		{object}	APIResponse{data=SnapshotInfo}
//	@Failure		400		{object}	APIResponse
//	@Failure		422		{object}	APIResponse
//	@Failure		500		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/snapshots [post]
func (s *Server) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	var req SnapshotRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Label == "" {
		sendError(w, "Label is required", http.StatusBadRequest)
		return
	}

	inv, ok := s.parse(w, "snapshot", req.Data)
	if !ok {
		return
	}

	snap, err := s.store.Create(req.Label, inv)
	s.metrics.RecordSnapshotOperation("create", err == nil)
	if err != nil {
		s.logger.Error("failed to create snapshot", "label", req.Label, "err", err)
		sendError(w, "Failed to store snapshot", http.StatusInternalServerError)
		return
	}

	sendCreated(w, infoOf(snap))
}

// handleListSnapshots godoc
//
//	@Summary		List snapshots
//	@Tags			snapshots
//	@Produce		json
//	@Success		200	{object}	APIResponse{data=[]SnapshotInfo}
//	@Failure		500	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/snapshots [get]
func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	snaps, err := s.store.List()
	s.metrics.RecordSnapshotOperation("list", err == nil)
	if err != nil {
		s.logger.Error("failed to list snapshots", "err", err)
		sendError(w, "Failed to list snapshots", http.StatusInternalServerError)
		return
	}

	infos := make([]SnapshotInfo, 0, len(snaps))
	for _, snap := range snaps {
		infos = append(infos, infoOf(snap))
	}
	sendSuccess(w, infos)
}

// handleGetSnapshot godoc
//
//	@Summary		Get a snapshot
//	@Tags			snapshots
//	@Produce		json
//	@Param			id	path		string	true	"Snapshot ID"
//	@Success		200	{object}	APIResponse{data=snapshot.Snapshot}
//	@Failure		400	{object}	APIResponse
//	@Failure		404	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/snapshots/{id} [get]
func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.loadSnapshot(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	sendSuccess(w, snap)
}

// handleDeleteSnapshot godoc
//
//	@Summary		Delete a snapshot
//	@Tags			snapshots
//	@Produce		json
//	@Param			id	path		string	true	"Snapshot ID"
//	@Success		200	{object}	APIResponse
//	@Failure		400	{object}	APIResponse
//	@Failure		404	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/snapshots/{id} [delete]
func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.store.Delete(id)
	s.metrics.RecordSnapshotOperation("delete", err == nil)
	if err != nil {
		s.sendStoreError(w, id, err)
		return
	}
	sendSuccess(w, map[string]string{"id": id, "status": "deleted"})
}

// handleDiffSnapshots godoc
//
//	@Summary		Compare two snapshots
//	@Description	Report items added, removed and changed between snapshot id and snapshot other
//	@Tags			snapshots
//	@Produce		json
//	@Param			id		path		string	true	"Earlier snapshot ID"
//	@Param			other	path		string	true	"Later snapshot ID"
//	@Success		200		{object}	APIResponse{data=DiffResponse}
//	@Failure		400		{object}	APIResponse
//	@Failure		404		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/snapshots/{id}/diff/{other} [get]
func (s *Server) handleDiffSnapshots(w http.ResponseWriter, r *http.Request) {
	before, ok := s.loadSnapshot(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	after, ok := s.loadSnapshot(w, chi.URLParam(r, "other"))
	if !ok {
		return
	}

	sendSuccess(w, DiffResponse{
		From:    before.ID,
		To:      after.ID,
		Changes: inventory.Diff(before.Inventory.Items, after.Inventory.Items),
	})
}

func (s *Server) loadSnapshot(w http.ResponseWriter, id string) (*snapshot.Snapshot, bool) {
	snap, err := s.store.Get(id)
	s.metrics.RecordSnapshotOperation("get", err == nil)
	if err != nil {
		s.sendStoreError(w, id, err)
		return nil, false
	}
	return snap, true
}

func (s *Server) sendStoreError(w http.ResponseWriter, id string, err error) {
	switch {
	case errors.Is(err, snapshot.ErrInvalidID):
		sendError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, snapshot.ErrNotFound):
		sendError(w, "Snapshot not found", http.StatusNotFound)
	default:
		s.logger.Error("snapshot store failure", "id", id, "err", err)
		sendError(w, "Snapshot store failure", http.StatusInternalServerError)
	}
}

// parse decodes text strictly, writing a 422 on failure
func (s *Server) parse(w http.ResponseWriter, operation, text string) (*itemdata.Inventory, bool) {
	start := time.Now()
	inv, err := s.decoder.Parse(text)
	if err != nil {
		s.metrics.RecordDecode(operation, itemdata.Kind(err), 0, time.Since(start))
		sendDecodeError(w, err)
		return nil, false
	}
	s.metrics.RecordDecode(operation, "", len(inv.Items), time.Since(start))
	return inv, true
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		sendError(w, "Invalid JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

// startMetricsUpdater refreshes the snapshot gauge until ctx is done
func (s *Server) startMetricsUpdater(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.updateSnapshotStats()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.updateSnapshotStats()
		}
	}
}

func (s *Server) updateSnapshotStats() {
	snaps, err := s.store.List()
	if err != nil {
		s.logger.Warn("failed to refresh snapshot metrics", "err", err)
		return
	}
	s.metrics.UpdateSnapshotStats(len(snaps))
}
