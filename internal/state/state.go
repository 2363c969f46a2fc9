package state

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// FileState represents the last build of a single source file
type FileState struct {
	MTime  int64  `json:"mtime"`
	Hash   string `json:"hash"`
	Output string `json:"output"`
}

// State represents the build state of a source tree
type State struct {
	Files map[string]*FileState `json:"files"`

	// Fingerprint identifies the render settings of the last build;
	// a different value invalidates every entry
	Fingerprint string `json:"fingerprint"`
}

// NewState creates a new empty state
func NewState() *State {
	return &State{
		Files: make(map[string]*FileState),
	}
}

// Load reads state from the state file
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewState(), nil
		}
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}

	if state.Files == nil {
		state.Files = make(map[string]*FileState)
	}

	return &state, nil
}

// Save writes state to the state file
func (s *State) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// ComputeHash computes SHA256 hash of a file
func ComputeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// HasChanged checks if a file has changed since it was last built
// Uses hybrid mtime + hash approach
func (s *State) HasChanged(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	fileState, exists := s.Files[path]
	if !exists {
		return true, nil
	}

	// Fast path: check mtime first
	if info.ModTime().Unix() == fileState.MTime {
		return false, nil
	}

	// mtime changed, compute hash to check for actual content changes
	hash, err := ComputeHash(path)
	if err != nil {
		return false, err
	}

	return hash != fileState.Hash, nil
}

// Update records a successful build of path into output
func (s *State) Update(path, output string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	hash, err := ComputeHash(path)
	if err != nil {
		return err
	}

	s.Files[path] = &FileState{
		MTime:  info.ModTime().Unix(),
		Hash:   hash,
		Output: output,
	}

	return nil
}

// Reset forgets every file when fingerprint differs from the recorded one
// and reports whether it did
func (s *State) Reset(fingerprint string) bool {
	if s.Fingerprint == fingerprint {
		return false
	}
	s.Files = make(map[string]*FileState)
	s.Fingerprint = fingerprint
	return true
}

// Prune drops entries whose source is not in keep and returns them, sorted
// by source path
func (s *State) Prune(keep map[string]bool) []*FileState {
	var gone []string
	for path := range s.Files {
		if !keep[path] {
			gone = append(gone, path)
		}
	}
	sort.Strings(gone)

	removed := make([]*FileState, 0, len(gone))
	for _, path := range gone {
		removed = append(removed, s.Files[path])
		delete(s.Files, path)
	}
	return removed
}
