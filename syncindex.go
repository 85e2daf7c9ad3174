package spatialindex

import (
	"sync"

	geo "github.com/kellydunn/golang-geo"
)

// SyncIndex serializes access to an Index so that several goroutines can
// share it. Mutations take an exclusive lock; queries share a read lock.
type SyncIndex struct {
	mutex sync.RWMutex
	index *Index
}

// NewSyncIndex wraps t. t must not be used directly afterwards.
func NewSyncIndex(t *Index) *SyncIndex {
	return &SyncIndex{index: t}
}

func (s *SyncIndex) Insert(e Entity) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.index.Insert(e)
}

func (s *SyncIndex) Remove(e Entity) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.index.Remove(e)
}

func (s *SyncIndex) Update(e Entity) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.index.Update(e)
}

// Move changes the position of e under the write lock, so readers never see
// e filed under a stale location.
func (s *SyncIndex) Move(e Mover, p *geo.Point) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.index.Move(e, p)
}

func (s *SyncIndex) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.index.Clear()
}

func (s *SyncIndex) Query(center *geo.Point, radius float64) []Entity {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.index.Query(center, radius)
}

func (s *SyncIndex) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.index.Size()
}

// Snapshot packs the current contents into an immutable Snapshot that can be
// queried without holding any lock.
func (s *SyncIndex) Snapshot() *Snapshot {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return NewSnapshot(s.index)
}

func (s *SyncIndex) Stats() Stats {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.index.Stats()
}

// Bounds returns the extent of the wrapped index.
func (s *SyncIndex) Bounds() Bounds {
	return s.index.Bounds()
}

// Metric returns the distance function of the wrapped index.
func (s *SyncIndex) Metric() Metric {
	return s.index.Metric()
}
