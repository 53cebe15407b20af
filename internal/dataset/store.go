// Package dataset holds the ordered pool of dialogue lines replies are drawn from,
// persisted as a newline-delimited text file.
package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// DefaultPath is the conventional backing file, relative to the working directory
const DefaultPath = "dataset.txt"

// ErrLoad is returned when a dataset file is missing or cannot be read
var ErrLoad = errors.New("failed to load dataset")

// Store is an ordered, duplicate-permitting collection of lines backed by a single file.
// Load is additive: loading the file that was just saved duplicates what is already held.
type Store struct {
	saveMu sync.Mutex // orders file writes

	mu    sync.RWMutex
	path  string
	lines []string
	dirty bool
	gen   uint64 // bumped on every change to lines
}

// NewStore creates an empty store backed by path
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// AppendText normalizes raw text and appends the resulting lines
func (s *Store) AppendText(raw string) string {
	return s.AppendLines(Lines(raw))
}

// AppendLines appends pre-split lines, dropping blanks
func (s *Store) AppendLines(lines []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines = normalize(lines)
	if len(lines) > 0 {
		s.lines = append(s.lines, lines...)
		s.dirty = true
		s.gen++
	}
	return s.renderLocked()
}

// Save writes every line to path (or the backing path when empty), overwriting it.
// It returns the rendered dataset rather than a status message. The file is written
// from a snapshot, so appends are not blocked while it is on disk.
func (s *Store) Save(path string) (string, error) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.RLock()
	if path == "" {
		path = s.path
	}
	var b strings.Builder
	for _, line := range s.lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	rendered := s.renderLocked()
	gen := s.gen
	s.mu.RUnlock()

	if err := writeFile(path, []byte(b.String())); err != nil {
		return "", fmt.Errorf("saving dataset to %s: %w", path, err)
	}

	s.mu.Lock()
	if path == s.path && s.gen == gen {
		s.dirty = false
	}
	s.mu.Unlock()
	return rendered, nil
}

// Load reads a newline-delimited file and appends its lines
func (s *Store) Load(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLoad, err)
	}
	defer f.Close()

	return s.LoadFrom(f)
}

// LoadFrom reads newline-delimited lines from r and appends them. Lines have no length cap.
func (s *Store) LoadFrom(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLoad, err)
	}

	return s.AppendLines(Lines(string(data))), nil
}

// Clear empties the store and removes the backing file. A missing file is not an error;
// any other removal error is returned after the in-memory lines are already gone.
func (s *Store) Clear() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.dirty = false
	s.gen++

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("removing %s: %w", s.path, err)
	}
	return "", nil
}

// Render returns the lines joined by newlines, without a trailing newline
func (s *Store) Render() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.renderLocked()
}

func (s *Store) renderLocked() string {
	return strings.Join(s.lines, "\n")
}

// Lines returns a copy of the current lines
func (s *Store) Lines() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len returns the number of lines held
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines)
}

// Dirty reports whether the store changed since it was last saved to its backing path
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}
