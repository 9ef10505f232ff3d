package realtime

import (
	"context"
	"sync"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// DriverPosition is the last known location of a connected driver.
type DriverPosition struct {
	Point kernel.GeoPoint
	At    time.Time
}

// Directory maps connected drivers to their session and live position.
type Directory interface {
	// Register binds driverID to sessionID, replacing any previous session.
	Register(ctx context.Context, driverID kernel.UUID, sessionID string) error
	// Lookup returns the session currently bound to driverID.
	Lookup(ctx context.Context, driverID kernel.UUID) (string, bool, error)
	// Remove unbinds driverID and forgets its position, but only while
	// sessionID still owns the entry. It reports whether it removed anything.
	Remove(ctx context.Context, driverID kernel.UUID, sessionID string) (bool, error)
	SetPosition(ctx context.Context, driverID kernel.UUID, position DriverPosition) error
	Position(ctx context.Context, driverID kernel.UUID) (DriverPosition, bool, error)
}

type directoryEntry struct {
	sessionID string
	position  *DriverPosition
}

// MemoryDirectory is the single-node Directory.
type MemoryDirectory struct {
	mu      sync.RWMutex
	drivers map[kernel.UUID]directoryEntry
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{drivers: make(map[kernel.UUID]directoryEntry)}
}

func (d *MemoryDirectory) Register(_ context.Context, driverID kernel.UUID, sessionID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drivers[driverID] = directoryEntry{sessionID: sessionID}
	return nil
}

func (d *MemoryDirectory) Lookup(_ context.Context, driverID kernel.UUID) (string, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	entry, ok := d.drivers[driverID]
	return entry.sessionID, ok, nil
}

func (d *MemoryDirectory) Remove(_ context.Context, driverID kernel.UUID, sessionID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	entry, ok := d.drivers[driverID]
	if !ok || entry.sessionID != sessionID {
		return false, nil
	}
	delete(d.drivers, driverID)
	return true, nil
}

func (d *MemoryDirectory) SetPosition(_ context.Context, driverID kernel.UUID, position DriverPosition) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	entry, ok := d.drivers[driverID]
	if !ok {
		return nil
	}
	entry.position = &position
	d.drivers[driverID] = entry
	return nil
}

func (d *MemoryDirectory) Position(_ context.Context, driverID kernel.UUID) (DriverPosition, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	entry, ok := d.drivers[driverID]
	if !ok || entry.position == nil {
		return DriverPosition{}, false, nil
	}
	return *entry.position, true, nil
}
