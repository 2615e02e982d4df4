// Package history maintains the session's prediction log and keeps it
// synchronized with a durable slot.
package history

import (
	"encoding/json"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/yjs2001/material-synthesis-seer/internal/model"
	"github.com/yjs2001/material-synthesis-seer/internal/persist"
)

// Store holds the prediction records for one session, newest first. Every
// mutation rewrites the entire collection to the slot; there is no
// incremental diffing. The store is not safe for concurrent use.
type Store struct {
	records []model.Record
	slot    persist.Slot
	logger  *zap.Logger
}

// Load builds a store from whatever the slot holds. A missing slot yields an
// empty history; an unreadable or corrupt one is logged and also yields an
// empty history. Load never fails.
func Load(slot persist.Slot, logger *zap.Logger) *Store {
	s := &Store{slot: slot, logger: logger}
	data, present, err := slot.Load()
	if err != nil {
		logger.Warn("history slot unreadable, starting empty",
			zap.String("slot", slot.Name()), zap.Error(err))
		return s
	}
	if !present {
		return s
	}
	if err := json.Unmarshal(data, &s.records); err != nil {
		logger.Warn("history slot corrupt, starting empty",
			zap.String("slot", slot.Name()), zap.Error(err))
		s.records = nil
	}
	return s
}

// Append prepends rec and rewrites the collection durably.
func (s *Store) Append(rec model.Record) {
	s.records = append([]model.Record{rec}, s.records...)
	s.flush()
}

// SetRemark replaces the remark of the record with the given id. An unknown
// id is a no-op; the return value reports whether the record was found.
func (s *Store) SetRemark(id, remark string) bool {
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Remark = remark
			s.flush()
			return true
		}
	}
	return false
}

// Delete removes the record with the given id. An unknown id is a no-op.
func (s *Store) Delete(id string) bool {
	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			s.flush()
			return true
		}
	}
	return false
}

// Import merges records into the history, skipping ids already present. The
// merged collection is re-sorted newest first so imported records interleave
// by creation time. Returns the number of records added.
func (s *Store) Import(recs []model.Record) int {
	added := 0
	for _, r := range recs {
		if _, ok := s.Get(r.ID); ok {
			continue
		}
		s.records = append(s.records, r)
		added++
	}
	if added > 0 {
		sort.SliceStable(s.records, func(i, j int) bool {
			return s.records[i].CreatedAt.After(s.records[j].CreatedAt)
		})
		s.flush()
	}
	return added
}

// Records returns a copy of the collection, newest first.
func (s *Store) Records() []model.Record {
	out := make([]model.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// Get returns the record with the given id.
func (s *Store) Get(id string) (model.Record, bool) {
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return model.Record{}, false
}

// Stats summarizes the history.
type Stats struct {
	Total      int            `json:"total"`
	ByMaterial map[string]int `json:"by_material"`
	ByOutcome  map[string]int `json:"by_outcome"`
	Oldest     *time.Time     `json:"oldest,omitempty"`
	Newest     *time.Time     `json:"newest,omitempty"`
}

// Stats computes per-material and per-outcome counts.
func (s *Store) Stats() Stats {
	st := Stats{
		Total:      len(s.records),
		ByMaterial: map[string]int{},
		ByOutcome:  map[string]int{},
	}
	for _, r := range s.records {
		st.ByMaterial[string(r.Material)]++
		st.ByOutcome[r.Outcome.Label]++
		if st.Oldest == nil || r.CreatedAt.Before(*st.Oldest) {
			t := r.CreatedAt
			st.Oldest = &t
		}
		if st.Newest == nil || r.CreatedAt.After(*st.Newest) {
			t := r.CreatedAt
			st.Newest = &t
		}
	}
	return st
}

// flush rewrites the whole collection. Durability is best effort: a failed
// write is logged and swallowed, since losing a history write must not break
// the session.
func (s *Store) flush() {
	data, err := json.Marshal(s.records)
	if err != nil {
		s.logger.Warn("history serialization failed", zap.Error(err))
		return
	}
	if err := s.slot.Save(data); err != nil {
		s.logger.Warn("history write failed",
			zap.String("slot", s.slot.Name()), zap.Error(err))
	}
}
