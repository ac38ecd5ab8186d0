package store

import "sync"

// MemoryKV is an in-memory KeyValueStore used for ephemeral runs and tests.
type MemoryKV struct {
	mu     sync.Mutex
	values map[string]string

	// Error flags for testing error conditions
	LoadError   error
	SaveError   error
	DeleteError error
}

// NewMemoryKV creates an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Load(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadError != nil {
		return "", false, m.LoadError
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) Save(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveError != nil {
		return m.SaveError
	}
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.values, key)
	return nil
}

// Raw returns the stored value for key without error injection.
func (m *MemoryKV) Raw(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}
