package returns

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when a return with the given ID is not found.
var ErrNotFound = errors.New("return not found")

// ErrEmptyID is returned when trying to store a return with an empty ID.
var ErrEmptyID = errors.New("empty return ID")

// Storage is the main interface for our returns storage layer.
type Storage interface {
	Set(ret *Return) error
	Read(id string) (*Return, error)
	GetBySaleID(saleID string) ([]*Return, error)

	// CountBySaleID reports how many requested returns reference the sale.
	// Processed and cancelled returns do not count.
	CountBySaleID(saleID string) (int, error)
}

// LocalStorage provides an in-memory implementation for storing returns.
type LocalStorage struct {
	mu sync.RWMutex
	m  map[string]*Return
}

// NewLocalStorage instantiates a new LocalStorage for returns with an empty map.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		m: map[string]*Return{},
	}
}

// Set stores the return under its ID, replacing any previous record.
// Returns ErrEmptyID if the return has an empty ID.
func (l *LocalStorage) Set(ret *Return) error {
	if ret.ID == "" {
		return ErrEmptyID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.m[ret.ID] = ret
	return nil
}

// Read retrieves a return from the local storage by ID.
// Returns ErrNotFound if the return is not found.
func (l *LocalStorage) Read(id string) (*Return, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.m[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

// GetBySaleID retrieves all returns referencing the given sale.
func (l *LocalStorage) GetBySaleID(saleID string) ([]*Return, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	rets := make([]*Return, 0)
	for _, r := range l.m {
		if r.SaleID == saleID {
			rets = append(rets, r)
		}
	}
	return rets, nil
}

// CountBySaleID counts the requested returns referencing the given sale.
func (l *LocalStorage) CountBySaleID(saleID string) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var n int
	for _, r := range l.m {
		if r.SaleID == saleID && r.Status == StatusRequested {
			n++
		}
	}
	return n, nil
}
