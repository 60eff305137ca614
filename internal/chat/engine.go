// Package chat turns user questions into transcript exchanges against the
// bound vector store.
package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/reportchat/reportchat/internal/adapter"
	"github.com/reportchat/reportchat/internal/logging"
	"github.com/reportchat/reportchat/internal/session"
)

// Apology is the fixed assistant message committed when answer generation
// fails. Failures never propagate to the caller as errors.
const Apology = "Sorry, something went wrong while generating an answer. Please try again."

// noAnswerText stands in when a response carried no extractable text.
const noAnswerText = "(No answer text returned)"

// ErrBusy is returned when an exchange is already in flight. A single
// exchange runs at a time; there is no queueing.
var ErrBusy = errors.New("an exchange is already in flight")

// phase tracks one exchange through its lifecycle.
type phase int

const (
	phaseIdle phase = iota
	phaseUserSubmitted
	phaseAwaitingAnswer
)

// Engine runs question/answer exchanges and keeps the transcript paired:
// every accepted question gains exactly one assistant reply, real or
// apology, even when the collaborator fails.
type Engine struct {
	state     *session.State
	store     *session.Store
	completer adapter.Completer
	model     string
	phase     phase
}

// NewEngine returns an Engine answering with the given model.
func NewEngine(state *session.State, store *session.Store, completer adapter.Completer, model string) *Engine {
	return &Engine{state: state, store: store, completer: completer, model: model}
}

// Ask runs one batch-mode exchange and returns the assistant's message.
// The only error is ErrBusy; collaborator failures become the apology.
func (e *Engine) Ask(ctx context.Context, indexID, question string) (string, error) {
	if err := e.begin(question); err != nil {
		return "", err
	}

	answer, err := e.completer.Complete(ctx, e.model, indexID, question)
	if err != nil {
		logging.Logger.Warn().Err(err).Msg("answer generation failed")
		answer = Apology
	} else if strings.TrimSpace(answer) == "" {
		answer = noAnswerText
	}

	e.finish(answer)
	return answer, nil
}

// AskStream runs one streaming exchange, forwarding each text fragment to
// sink as it arrives. The committed answer is the concatenation of all
// fragments; on a mid-stream error the partial text is discarded and the
// apology is committed instead.
func (e *Engine) AskStream(ctx context.Context, indexID, question string, sink func(delta string)) (string, error) {
	if err := e.begin(question); err != nil {
		return "", err
	}

	var buf strings.Builder
	err := e.completer.CompleteStream(ctx, e.model, indexID, question, func(delta string) {
		buf.WriteString(delta)
		if sink != nil {
			sink(delta)
		}
	})

	answer := buf.String()
	if err != nil {
		logging.Logger.Warn().Err(err).Msg("streamed answer failed")
		answer = Apology
	} else if strings.TrimSpace(answer) == "" {
		answer = noAnswerText
	}

	e.finish(answer)
	return answer, nil
}

// begin appends and persists the user's message, so the question survives
// even if the answer step fails, then moves to awaiting-answer.
func (e *Engine) begin(question string) error {
	if e.phase != phaseIdle {
		return ErrBusy
	}
	e.phase = phaseUserSubmitted
	e.state.Append(session.SpeakerUser, question)
	e.store.Save(e.state)
	e.phase = phaseAwaitingAnswer
	return nil
}

// finish commits exactly one assistant message and returns to idle.
func (e *Engine) finish(answer string) {
	e.state.Append(session.SpeakerAssistant, answer)
	e.store.Save(e.state)
	e.phase = phaseIdle
}
