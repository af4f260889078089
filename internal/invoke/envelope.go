// Package invoke runs remote IAM operations and normalizes every outcome into an
// Envelope. Single-call operations go through Do; list operations go through Pager.
package invoke

// Note keys attached to page envelopes.
const (
	NoteTruncated   = "truncated"
	NoteNextMarker  = "nextMarker"
	NoteMarker      = "marker"
	NotePage        = "page"
	NoteItems       = "items"
	NoteStaleMarker = "staleMarker"
)

type Notes map[string]any

// Envelope is the result of one invocation, or of one page of a list invocation.
// Exactly one of Payload and Fault is meaningful; check Fault first.
type Envelope struct {
	Operation string `json:"operation"`
	Payload   any    `json:"payload,omitempty"`
	Fault     *Fault `json:"fault,omitempty"`
	Notes     Notes  `json:"notes,omitempty"`
}

// Sink receives envelopes as they are produced.
type Sink func(Envelope)

func Success(operation string, payload any, notes Notes) Envelope {
	return Envelope{Operation: operation, Payload: payload, Notes: notes}
}

func Failure(operation string, err error) Envelope {
	return Envelope{Operation: operation, Fault: Classify(err)}
}

func (e Envelope) OK() bool {
	return e.Fault == nil
}

// Err returns the fault as an error, or nil.
func (e Envelope) Err() error {
	if e.Fault == nil {
		return nil
	}
	return e.Fault
}

func (e Envelope) Note(key string) (any, bool) {
	if e.Notes == nil {
		return nil, false
	}
	value, ok := e.Notes[key]
	return value, ok
}

// NextMarker returns the continuation marker noted on a page envelope.
func (e Envelope) NextMarker() string {
	value, _ := e.Note(NoteNextMarker)
	marker, _ := value.(string)
	return marker
}

func (e Envelope) Truncated() bool {
	value, _ := e.Note(NoteTruncated)
	truncated, _ := value.(bool)
	return truncated
}

func (e Envelope) withNote(key string, value any) Envelope {
	if e.Notes == nil {
		e.Notes = Notes{}
	}
	e.Notes[key] = value
	return e
}

// Emit forwards env to sink when one is set.
func (s Sink) Emit(env Envelope) {
	if s != nil {
		s(env)
	}
}
