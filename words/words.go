// Package words loads and serves the dictionary used for membership checks.
// The set is hot-swappable: Reload replaces it atomically under a lock.
package words

import (
	"bufio"
	"os"
	"strings"
	"sync"
)

// Dictionary is an in-memory word set backed by a plain text file,
// one word per line.
type Dictionary struct {
	path  string
	mutex sync.RWMutex
	words map[string]struct{}
}

// NewDictionary creates a dictionary bound to a file and loads it.
func NewDictionary(path string) (*Dictionary, error) {
	d := &Dictionary{
		path:  path,
		words: make(map[string]struct{}),
	}
	if err := d.Reload(); err != nil {
		return nil, err
	}
	return d, nil
}

// Reload re-reads the word file and swaps in the new set. On error the
// previous set stays in place.
func (d *Dictionary) Reload() error {
	f, err := os.Open(d.path)
	if err != nil {
		return err
	}
	defer f.Close()

	loaded := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word == "" {
			continue
		}
		loaded[word] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	d.mutex.Lock()
	d.words = loaded
	d.mutex.Unlock()
	return nil
}

// Contains reports membership of a normalized word.
func (d *Dictionary) Contains(word string) bool {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	_, ok := d.words[word]
	return ok
}

// Len returns the number of loaded words.
func (d *Dictionary) Len() int {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	return len(d.words)
}

// Suggest returns up to limit words starting with the given letter,
// skipping anything in exclude. Order is unspecified.
func (d *Dictionary) Suggest(letter string, exclude map[string]struct{}, limit int) []string {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	var out []string
	for w := range d.words {
		if len(out) >= limit {
			break
		}
		if !strings.HasPrefix(w, letter) {
			continue
		}
		if _, used := exclude[w]; used {
			continue
		}
		out = append(out, w)
	}
	return out
}
