package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/reportchat/reportchat/internal/logging"
)

// RetainedTurns is how many transcript entries the persisted copy keeps.
// The in-memory transcript is unbounded for the process lifetime.
const RetainedTurns = 50

// fileState is the on-disk shape of the session state.
type fileState struct {
	IndexID        *string  `json:"index_id"`
	DocumentCount  int      `json:"document_count"`
	ContentHashes  []string `json:"content_hashes"`
	KnownFilenames []string `json:"known_filenames"`
	Transcript     []Turn   `json:"transcript"`
}

// Store reads and writes the durable session state file. No other
// component touches the file directly.
type Store struct {
	path string
}

// NewStore returns a Store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted state. It never fails: a missing, unreadable,
// or malformed file silently yields the default state.
func (st *Store) Load() *State {
	s := NewState()

	data, err := os.ReadFile(st.path)
	if err != nil {
		return s
	}

	var fs fileState
	if err := json.Unmarshal(data, &fs); err != nil {
		logging.Logger.Debug().Err(err).Str("path", st.path).
			Msg("state file unreadable, starting from defaults")
		return s
	}

	if fs.IndexID != nil {
		s.IndexID = *fs.IndexID
	}
	if fs.DocumentCount > 0 {
		s.DocumentCount = fs.DocumentCount
	}
	for _, h := range fs.ContentHashes {
		s.ContentHashes[h] = true
	}
	for _, n := range fs.KnownFilenames {
		s.KnownFilenames[n] = true
	}
	s.Transcript = fs.Transcript

	return s
}

// Save writes the state to disk, best effort. Failures are logged and
// swallowed; the in-memory state stays authoritative either way. Only the
// most recent RetainedTurns transcript entries are persisted.
func (st *Store) Save(s *State) {
	fs := fileState{
		DocumentCount:  s.DocumentCount,
		ContentHashes:  sortedKeys(s.ContentHashes),
		KnownFilenames: sortedKeys(s.KnownFilenames),
		Transcript:     s.Transcript,
	}
	if s.IndexID != "" {
		id := s.IndexID
		fs.IndexID = &id
	}
	if len(fs.Transcript) > RetainedTurns {
		fs.Transcript = fs.Transcript[len(fs.Transcript)-RetainedTurns:]
	}

	data, err := json.MarshalIndent(fs, "", "  ")
	if err != nil {
		logging.Logger.Warn().Err(err).Msg("state save skipped")
		return
	}

	if err := os.MkdirAll(filepath.Dir(st.path), 0o755); err != nil {
		logging.Logger.Warn().Err(err).Msg("state save skipped")
		return
	}

	// Whole-file rewrite via rename so a crash mid-write leaves either the
	// old state or the new one, never a torn file.
	tmp := st.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		logging.Logger.Warn().Err(err).Msg("state save failed")
		return
	}
	if err := os.Rename(tmp, st.path); err != nil {
		logging.Logger.Warn().Err(err).Msg("state save failed")
	}
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
