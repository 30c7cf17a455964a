package repositories

import (
	"fmt"
	"sort"
	"sync"
)

// MemoryLocalStorage keeps entries in process memory. It backs ":memory:"
// runs and tests.
type MemoryLocalStorage struct {
	mu      sync.RWMutex
	entries map[string]string
	quota   int64
}

func NewMemoryLocalStorage(quota int64) *MemoryLocalStorage {
	return &MemoryLocalStorage{entries: map[string]string{}, quota: quota}
}

func (s *MemoryLocalStorage) GetItem(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok, nil
}

func (s *MemoryLocalStorage) SetItem(key, value string) error {
	if key == "" {
		return fmt.Errorf("local storage: key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quota > 0 {
		var used int64
		for k, v := range s.entries {
			if k == key {
				continue
			}
			used += int64(len(k) + len(v))
		}
		if used+int64(len(key)+len(value)) > s.quota {
			return fmt.Errorf("%w: writing %q", ErrQuotaExceeded, key)
		}
	}
	s.entries[key] = value
	return nil
}

func (s *MemoryLocalStorage) RemoveItem(key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryLocalStorage) Keys() ([]string, error) {
	s.mu.RLock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	return keys, nil
}
