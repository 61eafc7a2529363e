package deployer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

const recordsFileMode = 0o644

// Create2Record is one CREATE2 deployment
type Create2Record struct {
	Factory common.Address `json:"factory"`
	Address common.Address `json:"address"`
	Salt    common.Hash    `json:"salt"`
	Tx      common.Hash    `json:"tx,omitempty"`
}

// RouterRecord is one direct router deployment
type RouterRecord struct {
	Name    string         `json:"name"`
	RPC     string         `json:"rpc"`
	ChainID uint64         `json:"chainId"`
	Address common.Address `json:"address"`
	Tx      common.Hash    `json:"tx,omitempty"`
	Getters *Getters       `json:"getters,omitempty"`
}

// RecordStore is a JSON document mapping a chain key to a record. Writes
// re-read the file, merge one key and atomically replace it, so tasks
// writing different keys never lose each other's entries
type RecordStore[T any] struct {
	path string
	mu   sync.Mutex
}

// NewRecordStore returns a store backed by path. The file is created on first write
func NewRecordStore[T any](path string) *RecordStore[T] {
	return &RecordStore[T]{path: path}
}

// Path of the backing document
func (s *RecordStore[T]) Path() string {
	return s.path
}

// Get returns the record stored under key
func (s *RecordStore[T]) Get(key string) (T, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	all, err := s.read()
	if err != nil {
		return zero, false, err
	}
	v, ok := all[key]
	return v, ok, nil
}

// All returns a copy of the whole document
func (s *RecordStore[T]) All() (map[string]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Put stores value under key
func (s *RecordStore[T]) Put(key string, value T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.read()
	if err != nil {
		return err
	}
	all[key] = value
	return s.write(all)
}

func (s *RecordStore[T]) read() (map[string]T, error) {
	out := map[string]T{}
	data, err := os.ReadFile(filepath.Clean(s.path))
	if errors.Is(err, fs.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading records %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("error decoding records %s: %w", s.path, err)
	}
	return out, nil
}

func (s *RecordStore[T]) write(all map[string]T) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(recordsFileMode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
