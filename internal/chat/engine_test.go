package chat

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reportchat/reportchat/internal/session"
)

// fakeCompleter scripts batch and streaming answers.
type fakeCompleter struct {
	answer    string
	err       error
	deltas    []string
	streamErr error // returned after all deltas are delivered
}

func (f *fakeCompleter) Complete(ctx context.Context, model, indexID, question string) (string, error) {
	return f.answer, f.err
}

func (f *fakeCompleter) CompleteStream(ctx context.Context, model, indexID, question string, sink func(string)) error {
	for _, d := range f.deltas {
		sink(d)
	}
	return f.streamErr
}

func newTestEngine(t *testing.T, state *session.State, completer *fakeCompleter) *Engine {
	t.Helper()
	store := session.NewStore(filepath.Join(t.TempDir(), "state.json"))
	return NewEngine(state, store, completer, "gpt-4.1-mini")
}

func assertPairing(t *testing.T, transcript []session.Turn) {
	t.Helper()
	if len(transcript)%2 != 0 {
		t.Fatalf("transcript length %d is odd", len(transcript))
	}
	for i, turn := range transcript {
		want := session.SpeakerUser
		if i%2 == 1 {
			want = session.SpeakerAssistant
		}
		if turn.Speaker != want {
			t.Errorf("turn %d: speaker %q, want %q", i, turn.Speaker, want)
		}
	}
}

func TestAsk_AppendsPairedTurns(t *testing.T) {
	state := session.NewState()
	e := newTestEngine(t, state, &fakeCompleter{answer: "42"})
	ctx := context.Background()

	for _, q := range []string{"first?", "second?", "third?"} {
		answer, err := e.Ask(ctx, "vs_1", q)
		if err != nil {
			t.Fatalf("Ask(%q): %v", q, err)
		}
		if answer != "42" {
			t.Errorf("answer: got %q", answer)
		}
	}

	if len(state.Transcript) != 6 {
		t.Fatalf("transcript length: got %d, want 6", len(state.Transcript))
	}
	assertPairing(t, state.Transcript)
	if state.Transcript[0].Message != "first?" {
		t.Errorf("first turn: got %q", state.Transcript[0].Message)
	}
}

func TestAsk_FailureCommitsApology(t *testing.T) {
	state := session.NewState()
	e := newTestEngine(t, state, &fakeCompleter{err: errors.New("rate limited")})

	answer, err := e.Ask(context.Background(), "vs_1", "why?")
	if err != nil {
		t.Fatalf("completion errors must not propagate: %v", err)
	}
	if answer != Apology {
		t.Errorf("answer: got %q, want apology", answer)
	}

	if len(state.Transcript) != 2 {
		t.Fatalf("transcript length: got %d, want 2", len(state.Transcript))
	}
	assertPairing(t, state.Transcript)
	if state.Transcript[1].Message != Apology {
		t.Errorf("assistant turn: got %q", state.Transcript[1].Message)
	}
}

func TestAsk_EmptyAnswerGetsPlaceholder(t *testing.T) {
	state := session.NewState()
	e := newTestEngine(t, state, &fakeCompleter{answer: "  \n "})

	answer, err := e.Ask(context.Background(), "vs_1", "anything?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer != noAnswerText {
		t.Errorf("answer: got %q, want placeholder", answer)
	}
}

func TestAskStream_AccumulatesDeltas(t *testing.T) {
	state := session.NewState()
	e := newTestEngine(t, state, &fakeCompleter{deltas: []string{"Revenue ", "grew ", "12%."}})

	var seen []string
	answer, err := e.AskStream(context.Background(), "vs_1", "revenue?", func(delta string) {
		seen = append(seen, delta)
	})
	if err != nil {
		t.Fatalf("AskStream: %v", err)
	}
	if answer != "Revenue grew 12%." {
		t.Errorf("answer: got %q", answer)
	}
	if strings.Join(seen, "") != answer {
		t.Errorf("sink saw %q, committed %q", strings.Join(seen, ""), answer)
	}
	if state.Transcript[1].Message != answer {
		t.Errorf("committed turn: got %q", state.Transcript[1].Message)
	}
}

func TestAskStream_ErrorDiscardsPartialText(t *testing.T) {
	state := session.NewState()
	e := newTestEngine(t, state, &fakeCompleter{
		deltas:    []string{"partial ans"},
		streamErr: errors.New("connection reset"),
	})

	answer, err := e.AskStream(context.Background(), "vs_1", "question?", nil)
	if err != nil {
		t.Fatalf("stream errors must not propagate: %v", err)
	}
	if answer != Apology {
		t.Errorf("answer: got %q, want apology", answer)
	}

	assertPairing(t, state.Transcript)
	if got := state.Transcript[1].Message; strings.Contains(got, "partial") {
		t.Errorf("partial text must not be committed, got %q", got)
	}
}

func TestAskStream_RejectsOverlappingExchange(t *testing.T) {
	state := session.NewState()
	completer := &fakeCompleter{deltas: []string{"working..."}}
	e := newTestEngine(t, state, completer)
	ctx := context.Background()

	var nested error
	_, err := e.AskStream(ctx, "vs_1", "outer?", func(delta string) {
		// A second question while the answer is in flight is rejected.
		_, nested = e.Ask(ctx, "vs_1", "inner?")
	})
	if err != nil {
		t.Fatalf("AskStream: %v", err)
	}
	if !errors.Is(nested, ErrBusy) {
		t.Errorf("nested ask: got %v, want ErrBusy", nested)
	}

	// Only the outer exchange is in the transcript.
	if len(state.Transcript) != 2 {
		t.Errorf("transcript length: got %d, want 2", len(state.Transcript))
	}
}

func TestAsk_UserTurnPersistedBeforeAnswer(t *testing.T) {
	state := session.NewState()
	store := session.NewStore(filepath.Join(t.TempDir(), "state.json"))

	var persistedAtCall int
	completer := &fakeCompleter{err: errors.New("down")}
	e := NewEngine(state, store, completer, "gpt-4.1-mini")

	// Snapshot what the store holds the moment the completer runs.
	completerProbe := &probeCompleter{
		inner: completer,
		probe: func() { persistedAtCall = len(store.Load().Transcript) },
	}
	e.completer = completerProbe

	if _, err := e.Ask(context.Background(), "vs_1", "durable?"); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if persistedAtCall != 1 {
		t.Errorf("user turn persisted before answering: got %d turns, want 1", persistedAtCall)
	}
	if got := len(store.Load().Transcript); got != 2 {
		t.Errorf("final persisted transcript: got %d turns, want 2", got)
	}
}

// probeCompleter runs a callback before delegating.
type probeCompleter struct {
	inner *fakeCompleter
	probe func()
}

func (p *probeCompleter) Complete(ctx context.Context, model, indexID, question string) (string, error) {
	p.probe()
	return p.inner.Complete(ctx, model, indexID, question)
}

func (p *probeCompleter) CompleteStream(ctx context.Context, model, indexID, question string, sink func(string)) error {
	p.probe()
	return p.inner.CompleteStream(ctx, model, indexID, question, sink)
}
