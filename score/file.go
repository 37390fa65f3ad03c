package score

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/wfunc/wordchain/logger"
)

// FileStore keeps the ledger in memory and mirrors it to a JSON file
// with a write-temp-then-rename so a crash can never leave a torn file.
// One mutex serializes the whole increment-persist cycle.
type FileStore struct {
	path  string
	mutex sync.Mutex
	data  map[string]int
}

// NewFileStore loads an existing ledger file. A missing or corrupt file
// starts an empty ledger rather than failing startup.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path: path,
		data: make(map[string]int),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		logger.Log.Warnf("Score file %s is corrupt, starting empty: %v", path, err)
		s.data = make(map[string]int)
	}
	return s, nil
}

func (s *FileStore) Increment(key string, delta int) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[key] += delta
	total := s.data[key]
	return total, s.flushLocked()
}

func (s *FileStore) Total(key string) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.data[key], nil
}

func (s *FileStore) Top(n int) ([]Entry, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entries := make([]Entry, 0, len(s.data))
	for k, v := range s.data {
		entries = append(entries, Entry{Key: k, Points: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].Key < entries[j].Key
	})
	if n < len(entries) {
		entries = entries[:n]
	}
	return entries, nil
}

func (s *FileStore) Reset() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.data = make(map[string]int)
	return s.flushLocked()
}

func (s *FileStore) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.flushLocked()
}

// flushLocked writes the ledger atomically. Caller must hold the mutex.
func (s *FileStore) flushLocked() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	raw, err := json.MarshalIndent(s.data, "", "    ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
