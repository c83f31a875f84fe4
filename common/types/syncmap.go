package types

import "sync"

// SyncMap is a string keyed map safe for concurrent use. Typed maps embed
// it and cast on the way out.
type SyncMap struct {
	mu   sync.RWMutex
	data map[string]interface{}
}

func NewSyncMap() *SyncMap {
	return &SyncMap{data: make(map[string]interface{})}
}

func (m *SyncMap) Load(key string) (interface{}, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	return v, ok
}

func (m *SyncMap) Store(key string, value interface{}) {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
}

func (m *SyncMap) Delete(key string) {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
}

func (m *SyncMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.data)
}

// Range calls fn on a snapshot of the entries until fn returns false. fn
// may write to the map.
func (m *SyncMap) Range(fn func(key string, value interface{}) bool) {
	m.mu.RLock()
	keys := make([]string, 0, len(m.data))
	values := make([]interface{}, 0, len(m.data))
	for k, v := range m.data {
		keys = append(keys, k)
		values = append(values, v)
	}
	m.mu.RUnlock()

	for i := range keys {
		if !fn(keys[i], values[i]) {
			return
		}
	}
}
