// Package session owns the local session state: the bound vector store,
// the dedup bookkeeping for uploaded documents, and the chat transcript.
package session

import (
	"encoding/json"
	"fmt"
)

// Speaker labels for transcript turns.
const (
	SpeakerUser      = "You"
	SpeakerAssistant = "AI"
)

// Turn is one transcript entry. It is persisted as a two-element JSON
// array, [speaker, message].
type Turn struct {
	Speaker string
	Message string
}

func (t Turn) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{t.Speaker, t.Message})
}

func (t *Turn) UnmarshalJSON(data []byte) error {
	var pair [2]string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("transcript turn: %w", err)
	}
	t.Speaker, t.Message = pair[0], pair[1]
	return nil
}

// State is the in-memory session state. There is exactly one per process;
// it is loaded at startup and remains authoritative even when a save fails.
type State struct {
	// IndexID identifies the bound vector store. Empty until first bound.
	IndexID string

	// DocumentCount counts documents ingested into the current index
	// binding. It resets only when a new index is created.
	DocumentCount int

	// ContentHashes holds the content digest of every file ever staged for
	// upload to the bound index. Meaningful only relative to that index.
	ContentHashes map[string]bool

	// KnownFilenames holds filenames believed to already exist in the
	// bound index. Always reset together with ContentHashes.
	KnownFilenames map[string]bool

	// Transcript is the ordered chat log, alternating user/assistant.
	Transcript []Turn
}

// NewState returns the default (empty, unbound) state.
func NewState() *State {
	return &State{
		ContentHashes:  make(map[string]bool),
		KnownFilenames: make(map[string]bool),
	}
}

// ResetBookkeeping clears the content-hash and filename sets. They are
// only valid for one specific index, so they are never cleared separately.
func (s *State) ResetBookkeeping() {
	s.ContentHashes = make(map[string]bool)
	s.KnownFilenames = make(map[string]bool)
}

// Unbind forgets a stale index id along with its bookkeeping.
func (s *State) Unbind() {
	s.IndexID = ""
	s.ResetBookkeeping()
}

// BindNew binds a freshly created index. Unlike rediscovery of an existing
// index, creation starts the document count and bookkeeping from scratch.
func (s *State) BindNew(indexID string) {
	s.IndexID = indexID
	s.DocumentCount = 0
	s.ResetBookkeeping()
}

// Append adds one turn to the transcript.
func (s *State) Append(speaker, message string) {
	s.Transcript = append(s.Transcript, Turn{Speaker: speaker, Message: message})
}

// ClearTranscript drops the transcript wholesale.
func (s *State) ClearTranscript() {
	s.Transcript = nil
}
