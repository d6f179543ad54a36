package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"goodgood/internal/gg"
	"goodgood/internal/model"
)

// MemoryStore is an in-memory implementation of the Store interface.
// Records are kept in their encoded JSON form so callers can never mutate
// stored state through a returned pointer. Safe for concurrent use.
type MemoryStore struct {
	records map[string][]byte // date -> encoded record
	index   []string
	latest  string
	writes  int
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

func (m *MemoryStore) Exists(date string) (bool, error) {
	if _, err := model.ParseDate(date); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.records[date]
	return ok, nil
}

func (m *MemoryStore) Put(date string, record *model.DailyRecord) error {
	if _, err := model.ParseDate(date); err != nil {
		return err
	}
	data, err := json.Marshal(record)
	if err != nil {
		return &gg.StorageError{Op: "put", Path: date, Err: fmt.Errorf("encoding: %w", err)}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[date] = data
	m.writes++
	return nil
}

func (m *MemoryStore) Get(date string) (*model.DailyRecord, error) {
	if _, err := model.ParseDate(date); err != nil {
		return nil, err
	}
	m.mu.RLock()
	data, ok := m.records[date]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var rec model.DailyRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, &gg.StorageError{Op: "get", Path: date, Err: fmt.Errorf("decoding: %w", err)}
	}
	return &rec, nil
}

func (m *MemoryStore) AppendToIndex(date string) error {
	if _, err := model.ParseDate(date); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.index {
		if d == date {
			return nil
		}
	}
	m.index = normalizeDates(append(m.index, date))
	m.writes++
	return nil
}

func (m *MemoryStore) Index() (*model.DateIndex, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &model.DateIndex{Dates: append([]string{}, m.index...)}, nil
}

func (m *MemoryStore) SetLatest(date string) error {
	if _, err := model.ParseDate(date); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latest = date
	m.writes++
	return nil
}

func (m *MemoryStore) Latest() (*model.LatestPointer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.latest == "" {
		return nil, nil
	}
	return &model.LatestPointer{Date: m.latest}, nil
}

func (m *MemoryStore) Dates() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	dates := make([]string, 0, len(m.records))
	for d := range m.records {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates, nil
}

func (m *MemoryStore) Rebuild() error {
	dates, err := m.Dates()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.index = dates
	m.latest = ""
	if len(dates) > 0 {
		m.latest = dates[len(dates)-1]
	}
	m.writes++
	return nil
}

// Writes returns the number of mutating calls that changed state.
// Tests use it to assert that a run performed no writes.
func (m *MemoryStore) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// Compile-time check that MemoryStore implements gg.Store interface
var _ gg.Store = (*MemoryStore)(nil)
