package invoke

import (
	"context"
)

type State string

const (
	StateStart        State = "start"
	StateFetchingPage State = "fetching_page"
	StateEmittingPage State = "emitting_page"
	StateDone         State = "done"
	StateFaulted      State = "faulted"
)

// PageOptions carries the caller's pagination controls.
//
// An explicit Marker (even ""), an explicit PageSize or NoAutoIteration switches to
// manual mode: one page per invocation, the caller re-invokes with the noted
// nextMarker. Otherwise all pages are drained, bounded by MaxItems when it is positive.
type PageOptions struct {
	Marker          *string
	PageSize        *int32
	MaxItems        int
	NoAutoIteration bool
	Progress        func(Progress)
}

func (o PageOptions) Manual() bool {
	return o.Marker != nil || o.PageSize != nil || o.NoAutoIteration
}

// Progress is reported once per page fetched in manual mode.
type Progress struct {
	Operation string
	Page      int
	Items     int
	Marker    string
}

// Summary describes a finished pagination run.
type Summary struct {
	State      State
	Pages      int
	Items      int
	NextMarker string
	Envelopes  []Envelope
}

// Err returns the fault that stopped the run, if any.
func (s Summary) Err() error {
	if s.State != StateFaulted || len(s.Envelopes) == 0 {
		return nil
	}
	return s.Envelopes[len(s.Envelopes)-1].Err()
}

// Pager describes one remote list operation. Call has the SDK method shape.
type Pager[In, Out, Item, Opt any] struct {
	Operation   string
	Call        func(context.Context, *In, ...Opt) (*Out, error)
	SetMarker   func(*In, *string)
	SetPageSize func(*In, *int32)
	NextMarker  func(*Out) *string
	Truncated   func(*Out) bool
	Items       func(*Out) []Item
	// Payload builds the page payload from the response and the items surfaced on this
	// page. When nil the items are the payload.
	Payload func(*Out, []Item) any

	DefaultPageSize int32
	MaxPages        int
}

// Run drives the list operation from in, emitting one envelope per page to sink.
// The value behind in is copied for every request and never modified.
func (p Pager[In, Out, Item, Opt]) Run(ctx context.Context, in *In, opts PageOptions, sink Sink) Summary {
	summary := Summary{State: StateStart}
	if in == nil {
		in = new(In)
	}
	manual := opts.Manual()
	var marker *string
	if opts.Marker != nil && *opts.Marker != "" {
		m := *opts.Marker
		marker = &m
	}

	emit := func(env Envelope) {
		summary.Envelopes = append(summary.Envelopes, env)
		sink.Emit(env)
	}

	for {
		if summary.Pages > 0 {
			if err := ctx.Err(); err != nil {
				summary.State = StateFaulted
				emit(p.pageFault(err, summary.Pages+1, marker))
				return summary
			}
		}
		summary.State = StateFetchingPage

		req := *in
		if p.SetMarker != nil {
			p.SetMarker(&req, marker)
		}
		remaining := 0
		if opts.MaxItems > 0 {
			remaining = opts.MaxItems - summary.Items
		}
		if p.SetPageSize != nil {
			if size := p.pageSize(opts.PageSize, remaining); size > 0 {
				p.SetPageSize(&req, &size)
			}
		}

		out, err := p.Call(ctx, &req)
		summary.Pages++
		if err != nil {
			summary.State = StateFaulted
			emit(p.pageFault(err, summary.Pages, marker))
			return summary
		}

		summary.State = StateEmittingPage
		var items []Item
		if out != nil && p.Items != nil {
			items = p.Items(out)
		}
		if remaining > 0 && len(items) > remaining {
			items = items[:remaining]
		}
		summary.Items += len(items)

		next := ""
		if out != nil && p.NextMarker != nil {
			if m := p.NextMarker(out); m != nil {
				next = *m
			}
		}
		truncated := next != ""
		if out != nil && p.Truncated != nil {
			truncated = p.Truncated(out)
		}
		summary.NextMarker = next

		var payload any = items
		if p.Payload != nil && out != nil {
			payload = p.Payload(out, items)
		}
		notes := Notes{
			NoteTruncated: truncated,
			NotePage:      summary.Pages,
			NoteItems:     len(items),
		}
		if marker != nil {
			notes[NoteMarker] = *marker
		}
		if next != "" {
			notes[NoteNextMarker] = next
		}
		stale := next != "" && marker != nil && *marker == next
		if stale {
			notes[NoteStaleMarker] = true
		}

		if manual && opts.Progress != nil {
			opts.Progress(Progress{Operation: p.Operation, Page: summary.Pages, Items: len(items), Marker: derefString(marker)})
		}
		emit(Success(p.Operation, payload, notes))

		switch {
		case next == "",
			manual,
			opts.MaxItems > 0 && summary.Items >= opts.MaxItems,
			stale,
			p.MaxPages > 0 && summary.Pages >= p.MaxPages:
			summary.State = StateDone
			return summary
		}
		nextMarker := next
		marker = &nextMarker
	}
}

func (p Pager[In, Out, Item, Opt]) pageSize(explicit *int32, remaining int) int32 {
	size := p.DefaultPageSize
	if explicit != nil && *explicit > 0 {
		size = *explicit
	}
	if remaining > 0 && (size <= 0 || int32(remaining) < size) {
		size = int32(remaining)
	}
	return size
}

func (p Pager[In, Out, Item, Opt]) pageFault(err error, page int, marker *string) Envelope {
	env := Failure(p.Operation, err).withNote(NotePage, page)
	if marker != nil {
		env = env.withNote(NoteMarker, *marker)
	}
	return env
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
