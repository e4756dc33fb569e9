// Package prefs provides JSON-based application preferences.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const prefsFile = "preferences.json"

// Prefs stores the editor preferences.
type Prefs struct {
	mu   sync.RWMutex
	path string

	// LastDirectory is the directory of the last opened chain file.
	LastDirectory string `json:"last_directory,omitempty"`
	// LastChain is the path of the last opened chain file.
	LastChain string `json:"last_chain,omitempty"`
	// RotationDrag arms rotation-about-anchor dragging with Ctrl held.
	RotationDrag bool `json:"rotation_drag"`
	// Standard is the active design standard name.
	Standard string `json:"standard,omitempty"`
}

// Load reads preferences from ~/.config/alignment-editor/preferences.json.
// Returns defaults if the file doesn't exist.
func Load() *Prefs {
	p := &Prefs{}

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	p.path = filepath.Join(configDir, "alignment-editor", prefsFile)

	data, err := os.ReadFile(p.path)
	if err != nil {
		return p
	}
	_ = json.Unmarshal(data, p)
	return p
}

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.RLock()
	data, err := json.MarshalIndent(p, "", "  ")
	p.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}

// SetLastChain records the last opened chain file and its directory.
func (p *Prefs) SetLastChain(path string) {
	p.mu.Lock()
	p.LastChain = path
	p.LastDirectory = filepath.Dir(path)
	p.mu.Unlock()
}
