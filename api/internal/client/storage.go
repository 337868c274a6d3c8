package client

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Device state file names. Versioned so a future format change can move
// aside without migrating.
const (
	rateHistoryFile = "device_rate_history_v1.json"
	resultCacheFile = "tax_result_cache_v1.json"
)

// Storage persists best-effort device state as JSON files under one dir.
// Absent, empty, or corrupt files all read as empty state; persistence
// failures are swallowed. Losing this state costs a cache miss or a
// fresh rate window, never correctness.
type Storage struct {
	dir string
}

func NewStorage(dir string) *Storage { return &Storage{dir: dir} }

func (s *Storage) Load(name string, v any) {
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return
	}
	_ = json.Unmarshal(b, v)
}

func (s *Storage) Save(name string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = os.MkdirAll(s.dir, 0o755)
	_ = os.WriteFile(filepath.Join(s.dir, name), b, 0o644)
}
