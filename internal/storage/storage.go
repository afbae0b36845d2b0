package storage

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/eugenenazirov/truck-loader/internal/dataset"
	"github.com/eugenenazirov/truck-loader/internal/knapsack"
)

var (
	// ErrDatasetNotFound indicates no dataset is stored under the requested name.
	ErrDatasetNotFound = errors.New("dataset not found")
	// ErrInvalidDataset indicates the provided dataset violates validation rules.
	ErrInvalidDataset = errors.New("invalid dataset")
)

// Storage provides access to the datasets available to the solvers.
type Storage interface {
	GetDataset(name string) (dataset.Dataset, error)
	PutDataset(ds dataset.Dataset) error
	ListDatasets() ([]Summary, error)
}

// Summary describes a stored dataset without its pallets.
type Summary struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Pallets  int    `json:"pallets"`
}

// MemoryStorage keeps datasets in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu       sync.RWMutex
	datasets map[string]dataset.Dataset
}

// NewMemoryStorage initialises storage with the built-in sample dataset.
func NewMemoryStorage() *MemoryStorage {
	sample := SampleDataset()
	return &MemoryStorage{
		datasets: map[string]dataset.Dataset{sample.Name: sample},
	}
}

// SampleDataset returns a copy of the built-in dataset, a small instance where
// greedy and the exact strategies disagree.
func SampleDataset() dataset.Dataset {
	return dataset.Dataset{
		Name:     "sample",
		Capacity: 50,
		Pallets: []knapsack.Pallet{
			{ID: 1, Weight: 10, Profit: 60},
			{ID: 2, Weight: 20, Profit: 100},
			{ID: 3, Weight: 30, Profit: 120},
		},
	}
}

// GetDataset returns a defensive copy of the named dataset.
func (s *MemoryStorage) GetDataset(name string) (dataset.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ds, ok := s.datasets[name]
	if !ok {
		return dataset.Dataset{}, fmt.Errorf("%w: %q", ErrDatasetNotFound, name)
	}
	return ds.Clone(), nil
}

// PutDataset validates and stores a copy of ds, replacing any dataset with the same name.
func (s *MemoryStorage) PutDataset(ds dataset.Dataset) error {
	ds.Name = strings.TrimSpace(ds.Name)
	if ds.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDataset)
	}
	if err := ds.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}

	s.mu.Lock()
	s.datasets[ds.Name] = ds.Clone()
	s.mu.Unlock()

	return nil
}

// ListDatasets returns summaries sorted by name.
func (s *MemoryStorage) ListDatasets() ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Summary, 0, len(s.datasets))
	for _, ds := range s.datasets {
		out = append(out, Summary{Name: ds.Name, Capacity: ds.Capacity, Pallets: len(ds.Pallets)})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}
