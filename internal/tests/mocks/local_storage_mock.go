package mocks

import "fleetnavigator/internal/repositories"

// LocalStorageMock delegates to an in-memory store unless a func field is set,
// so tests can fail individual operations.
type LocalStorageMock struct {
	GetItemFunc    func(key string) (string, bool, error)
	SetItemFunc    func(key, value string) error
	RemoveItemFunc func(key string) error
	KeysFunc       func() ([]string, error)

	Memory *repositories.MemoryLocalStorage
}

func NewLocalStorageMock() *LocalStorageMock {
	return &LocalStorageMock{Memory: repositories.NewMemoryLocalStorage(0)}
}

func (m *LocalStorageMock) GetItem(key string) (string, bool, error) {
	if m.GetItemFunc != nil {
		return m.GetItemFunc(key)
	}
	return m.Memory.GetItem(key)
}

func (m *LocalStorageMock) SetItem(key, value string) error {
	if m.SetItemFunc != nil {
		return m.SetItemFunc(key, value)
	}
	return m.Memory.SetItem(key, value)
}

func (m *LocalStorageMock) RemoveItem(key string) error {
	if m.RemoveItemFunc != nil {
		return m.RemoveItemFunc(key)
	}
	return m.Memory.RemoveItem(key)
}

func (m *LocalStorageMock) Keys() ([]string, error) {
	if m.KeysFunc != nil {
		return m.KeysFunc()
	}
	return m.Memory.Keys()
}
