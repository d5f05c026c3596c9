package filestorage

import (
	"context"
	"time"

	"github.com/SeakMengs/ProjectHub/internal/metrics"
)

// InstrumentedStore records Prometheus metrics around another ObjectStore.
type InstrumentedStore struct {
	next    ObjectStore
	metrics *metrics.Metrics
}

func NewInstrumentedStore(next ObjectStore, m *metrics.Metrics) *InstrumentedStore {
	return &InstrumentedStore{next: next, metrics: m}
}

func (s *InstrumentedStore) Put(ctx context.Context, blob Blob, folder string) (Locator, error) {
	started := time.Now()
	loc, err := s.next.Put(ctx, blob, folder)
	s.metrics.ObserveStoreOp("put", started, err)
	if err == nil {
		s.metrics.AddUploadedBytes(blob.Size)
	}
	return loc, err
}

func (s *InstrumentedStore) Delete(ctx context.Context, handle string) error {
	started := time.Now()
	err := s.next.Delete(ctx, handle)
	s.metrics.ObserveStoreOp("delete", started, err)
	return err
}
