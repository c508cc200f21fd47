package store

import (
	"context"
	"log"
	"sync"
	"time"

	"statusboard/internal/domain"
	"statusboard/internal/infrastructure/repository"
)

// DeviceStore holds the current snapshot per device. All mutations run as a
// single read-modify-write critical section under one mutex, with the
// snapshot backend written inside the section, so concurrent ingests for
// different devices never clobber each other and a prune+save never races a
// fresh ingest.
type DeviceStore struct {
	mu      sync.Mutex
	devices map[string]domain.DeviceRecord
	snap    repository.Snapshot
	loc     *time.Location
	timeout time.Duration
}

func NewDeviceStore(snap repository.Snapshot, loc *time.Location, timeout time.Duration) *DeviceStore {
	devices, err := snap.LoadDevices(context.Background())
	if err != nil {
		log.Printf("device snapshot load failed, starting empty: %v", err)
	}
	if devices == nil {
		devices = map[string]domain.DeviceRecord{}
	}
	return &DeviceStore{
		devices: devices,
		snap:    snap,
		loc:     loc,
		timeout: timeout,
	}
}

func (s *DeviceStore) Get(id string) (domain.DeviceRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.devices[id]
	return rec, ok
}

// Put overwrites the record for rec.DeviceID and flushes the snapshot. On a
// flush failure the in-memory write is rolled back so the store never
// diverges from what the caller was told.
func (s *DeviceStore) Put(ctx context.Context, rec domain.DeviceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.devices[rec.DeviceID]
	s.devices[rec.DeviceID] = rec
	if err := s.snap.SaveDevices(ctx, s.devices); err != nil {
		if had {
			s.devices[rec.DeviceID] = prev
		} else {
			delete(s.devices, rec.DeviceID)
		}
		return err
	}
	return nil
}

// List returns a copy of the current device map. Iteration order is not
// meaningful to callers.
func (s *DeviceStore) List() map[string]domain.DeviceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

func (s *DeviceStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.devices)
}

// PruneExpired drops records whose lastUpdate is missing or older than the
// device timeout, persisting only when something was actually removed. A
// record whose timestamp exists but cannot be parsed is kept and logged:
// a parsing regression must never silently delete device state.
func (s *DeviceStore) PruneExpired(ctx context.Context, now time.Time) (map[string]domain.DeviceRecord, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, rec := range s.devices {
		if rec.LastUpdate == "" {
			delete(s.devices, id)
			removed++
			continue
		}
		last, err := time.ParseInLocation(domain.TimeLayout, rec.LastUpdate, s.loc)
		if err != nil {
			log.Printf("unparseable lastUpdate %q for device %s, keeping it", rec.LastUpdate, id)
			continue
		}
		if now.Sub(last) > s.timeout {
			delete(s.devices, id)
			removed++
		}
	}
	if removed > 0 {
		if err := s.snap.SaveDevices(ctx, s.devices); err != nil {
			log.Printf("device snapshot save after prune failed: %v", err)
		}
	}
	return s.copyLocked(), removed
}

func (s *DeviceStore) copyLocked() map[string]domain.DeviceRecord {
	out := make(map[string]domain.DeviceRecord, len(s.devices))
	for id, rec := range s.devices {
		out[id] = rec
	}
	return out
}
