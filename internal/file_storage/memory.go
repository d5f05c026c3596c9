package filestorage

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/SeakMengs/ProjectHub/internal/errs"
	"github.com/SeakMengs/ProjectHub/internal/util"
)

// MemoryStore keeps blobs in memory. Used for local development and tests.
// PutHook and DeleteHook, when set, run before the operation and abort it on error.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	seq     int
	baseURL string

	PutHook    func(blob Blob) error
	DeleteHook func(handle string) error
}

func NewMemoryStore(baseURL string) *MemoryStore {
	if baseURL == "" {
		baseURL = "memory://blobs"
	}
	return &MemoryStore{objects: map[string][]byte{}, baseURL: baseURL}
}

func (s *MemoryStore) Put(ctx context.Context, blob Blob, folder string) (Locator, error) {
	if s.PutHook != nil {
		if err := s.PutHook(blob); err != nil {
			return Locator{}, err
		}
	}
	if err := ctx.Err(); err != nil {
		return Locator{}, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}

	var data []byte
	if blob.Body != nil {
		b, err := io.ReadAll(blob.Body)
		if err != nil {
			return Locator{}, fmt.Errorf("%w: %v", errs.ErrUploadRejected, err)
		}
		data = b
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	key := util.ToObjectKey(folder, util.AddUniquePrefixToFileName(fmt.Sprintf("%06d", s.seq), blob.Name))
	s.objects[key] = data

	return Locator{URL: s.baseURL + "/" + key, Handle: key}, nil
}

func (s *MemoryStore) Delete(ctx context.Context, handle string) error {
	if s.DeleteHook != nil {
		if err := s.DeleteHook(handle); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, handle)
	return nil
}

func (s *MemoryStore) Has(handle string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[handle]
	return ok
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

func (s *MemoryStore) Handles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.objects))
	for k := range s.objects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
