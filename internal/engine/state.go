package engine

import (
	"github.com/roach88/cork/internal/repr"
)

// Status is the kind of canonical state currently held by the store.
type Status int

const (
	// StatusEmpty is the state before the first evaluation completes.
	StatusEmpty Status = iota
	// StatusOk holds a value and a width.
	StatusOk
	// StatusErr holds an error message and no value.
	StatusErr
)

func (s Status) String() string {
	switch s {
	case StatusOk:
		return "ok"
	case StatusErr:
		return "err"
	default:
		return "empty"
	}
}

// Phase reports whether an evaluation is outstanding.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseEvaluating
)

func (p Phase) String() string {
	if p == PhaseEvaluating {
		return "evaluating"
	}
	return "idle"
}

// FailedWidth is the bitWidth reported alongside an error. The bit grid
// disables every cell in the error state, so the width only has to be a
// valid ladder value.
const FailedWidth = repr.W64

// State is an immutable snapshot of the canonical state.
//
// INVARIANTS (StatusOk):
//   - Width >= repr.MinimalWidth(Value)
//   - Error == ""
//
// INVARIANTS (StatusErr):
//   - Value == 0 (no stale value is retained)
type State struct {
	// Revision increases by one on every broadcast.
	Revision int64

	Status Status
	Value  int64
	Width  repr.BitWidth
	Error  string
}

// Ok reports whether the state holds a value.
func (s State) Ok() bool {
	return s.Status == StatusOk
}

// Minimal returns the minimal width of the held value (W8 when there is none).
func (s State) Minimal() repr.BitWidth {
	if !s.Ok() {
		return repr.W8
	}
	return repr.MinimalWidth(s.Value)
}

// Representation renders the held value at the held width.
// ok is false when the state holds no value.
func (s State) Representation() (r repr.Representation, ok bool) {
	if !s.Ok() {
		return repr.Representation{}, false
	}
	return repr.MustEncode(s.Value, s.Width), true
}

// Message converts the state into the broadcast variant. Returns nil for
// StatusEmpty.
func (s State) Message() Message {
	switch s.Status {
	case StatusOk:
		return Updated{Value: s.Value, Width: s.Width, Minimal: repr.MinimalWidth(s.Value)}
	case StatusErr:
		return Failed{Message: s.Error}
	}
	return nil
}

// Message is the closed set of payloads delivered to observers:
// Updated or Failed.
type Message interface {
	isMessage()

	// Protocol returns the wire form of the message.
	Protocol() ProtocolMessage
}

// Updated announces a new canonical (value, width) pair.
type Updated struct {
	Value   int64
	Width   repr.BitWidth
	Minimal repr.BitWidth
}

// Failed announces that the canonical value was cleared by an error.
type Failed struct {
	Message string
}

func (Updated) isMessage() {}
func (Failed) isMessage()  {}

// Protocol implements Message.
func (u Updated) Protocol() ProtocolMessage {
	v := u.Value
	return ProtocolMessage{Value: &v, BitWidth: u.Width.Bits()}
}

// Protocol implements Message.
func (f Failed) Protocol() ProtocolMessage {
	m := f.Message
	return ProtocolMessage{Error: &m, BitWidth: FailedWidth.Bits()}
}

// ProtocolMessage is the wire shape of a broadcast. Exactly one of Value
// and Error is non-nil.
type ProtocolMessage struct {
	Value    *int64  `json:"value"`
	Error    *string `json:"error"`
	BitWidth int     `json:"bitWidth"`
}
