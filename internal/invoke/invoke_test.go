package invoke

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/require"
)

type listIn struct {
	Marker   *string
	MaxItems *int32
	Prefix   string
}

type listOut struct {
	Names       []string
	Marker      *string
	IsTruncated bool
}

type option func()

type page struct {
	items int
	next  string
	err   error
}

// fakeLister replays pages in order and records every request it receives.
type fakeLister struct {
	pages    []page
	requests []listIn
}

func (f *fakeLister) List(_ context.Context, in *listIn, _ ...option) (*listOut, error) {
	f.requests = append(f.requests, *in)
	idx := len(f.requests) - 1
	if idx >= len(f.pages) {
		return nil, fmt.Errorf("unexpected request %d", idx+1)
	}
	p := f.pages[idx]
	if p.err != nil {
		return nil, p.err
	}
	out := &listOut{IsTruncated: p.next != ""}
	for i := 0; i < p.items; i++ {
		out.Names = append(out.Names, fmt.Sprintf("p%d-%d", idx+1, i))
	}
	if p.next != "" {
		next := p.next
		out.Marker = &next
	}
	return out, nil
}

func newPager(f *fakeLister) Pager[listIn, listOut, string, option] {
	return Pager[listIn, listOut, string, option]{
		Operation:       "test.list",
		Call:            f.List,
		SetMarker:       func(in *listIn, m *string) { in.Marker = m },
		SetPageSize:     func(in *listIn, n *int32) { in.MaxItems = n },
		NextMarker:      func(out *listOut) *string { return out.Marker },
		Truncated:       func(out *listOut) bool { return out.IsTruncated },
		Items:           func(out *listOut) []string { return out.Names },
		DefaultPageSize: 100,
	}
}

func collect() (*[]Envelope, Sink) {
	var got []Envelope
	return &got, func(env Envelope) { got = append(got, env) }
}

type getIn struct{ Name *string }

type getOut struct {
	Role  *string
	Extra int
}

func TestDoReturnsDesignatedField(t *testing.T) {
	role := "admin"
	call := func(_ context.Context, in *getIn, _ ...option) (*getOut, error) {
		return &getOut{Role: &role, Extra: 7}, nil
	}
	env := Do(context.Background(), "test.get", call, &getIn{}, func(out *getOut) any { return out.Role })
	require.True(t, env.OK())
	require.Nil(t, env.Fault)
	require.Equal(t, &role, env.Payload)
	require.Equal(t, "test.get", env.Operation)
}

func TestDoWholeResponseAndVoid(t *testing.T) {
	out := &getOut{Extra: 3}
	call := func(context.Context, *getIn, ...option) (*getOut, error) { return out, nil }

	whole := Do(context.Background(), "test.get", call, &getIn{}, nil)
	require.Same(t, out, whole.Payload)

	void := Do(context.Background(), "test.delete", call, &getIn{}, Void[getOut])
	require.True(t, void.OK())
	require.Nil(t, void.Payload)
}

func TestDoFaultPropagation(t *testing.T) {
	boom := &smithy.GenericAPIError{Code: "NoSuchEntity", Message: "role missing"}
	calls := 0
	call := func(context.Context, *getIn, ...option) (*getOut, error) {
		calls++
		return nil, boom
	}
	env := Do(context.Background(), "test.get", call, &getIn{}, nil)
	require.Equal(t, 1, calls)
	require.False(t, env.OK())
	require.Nil(t, env.Payload)
	require.Equal(t, KindService, env.Fault.Kind)
	require.Equal(t, "not_found", env.Fault.Code)
	require.ErrorIs(t, env.Err(), boom)
}

func TestDoIsRepeatable(t *testing.T) {
	role := "reader"
	call := func(_ context.Context, in *getIn, _ ...option) (*getOut, error) {
		return &getOut{Role: &role}, nil
	}
	name := "reader"
	in := &getIn{Name: &name}
	first := Do(context.Background(), "test.get", call, in, func(out *getOut) any { return *out.Role })
	second := Do(context.Background(), "test.get", call, in, func(out *getOut) any { return *out.Role })
	require.Equal(t, first, second)
	require.Equal(t, "reader", *in.Name)
}

func TestPagerAutoDrain(t *testing.T) {
	f := &fakeLister{pages: []page{{items: 5, next: "t1"}, {items: 5, next: "t2"}, {items: 0}}}
	got, sink := collect()

	summary := newPager(f).Run(context.Background(), &listIn{Prefix: "/app/"}, PageOptions{}, sink)

	require.Equal(t, StateDone, summary.State)
	require.Equal(t, 3, summary.Pages)
	require.Equal(t, 10, summary.Items)
	require.Len(t, f.requests, 3)
	require.Nil(t, f.requests[0].Marker)
	require.Equal(t, "t1", *f.requests[1].Marker)
	require.Equal(t, "t2", *f.requests[2].Marker)
	for _, req := range f.requests {
		require.Equal(t, "/app/", req.Prefix)
	}
	require.Len(t, *got, 3)
	require.Equal(t, summary.Envelopes, *got)
	require.True(t, (*got)[0].Truncated())
	require.Equal(t, "t1", (*got)[0].NextMarker())
	require.False(t, (*got)[2].Truncated())
}

func TestPagerCapBounded(t *testing.T) {
	f := &fakeLister{pages: []page{{items: 10, next: "a"}, {items: 10, next: "b"}, {items: 10, next: "c"}}}
	got, sink := collect()

	summary := newPager(f).Run(context.Background(), &listIn{}, PageOptions{MaxItems: 15}, sink)

	require.Equal(t, StateDone, summary.State)
	require.Equal(t, 2, summary.Pages)
	require.Equal(t, 15, summary.Items)
	require.Equal(t, int32(15), *f.requests[0].MaxItems)
	require.Equal(t, int32(5), *f.requests[1].MaxItems)
	require.Len(t, (*got)[1].Payload.([]string), 5)
}

func TestPagerManualWithEmptyMarker(t *testing.T) {
	f := &fakeLister{pages: []page{{items: 5, next: "t1"}, {items: 5, next: "t2"}, {items: 0}}}
	got, sink := collect()
	empty := ""
	var progress []Progress

	summary := newPager(f).Run(context.Background(), &listIn{}, PageOptions{
		Marker:   &empty,
		Progress: func(p Progress) { progress = append(progress, p) },
	}, sink)

	require.Equal(t, StateDone, summary.State)
	require.Equal(t, 1, summary.Pages)
	require.Len(t, f.requests, 1)
	require.Nil(t, f.requests[0].Marker)
	require.Len(t, *got, 1)
	require.Equal(t, "t1", (*got)[0].NextMarker())
	require.Equal(t, "t1", summary.NextMarker)
	require.Equal(t, []Progress{{Operation: "test.list", Page: 1, Items: 5}}, progress)
}

func TestPagerManualModes(t *testing.T) {
	size := int32(2)
	marker := "t1"
	cases := []struct {
		name string
		opts PageOptions
	}{
		{name: "marker", opts: PageOptions{Marker: &marker}},
		{name: "page size", opts: PageOptions{PageSize: &size}},
		{name: "no auto iteration", opts: PageOptions{NoAutoIteration: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &fakeLister{pages: []page{{items: 2, next: "t2"}, {items: 2}}}
			summary := newPager(f).Run(context.Background(), &listIn{}, tc.opts, nil)
			require.Equal(t, 1, summary.Pages)
			require.Equal(t, "t2", summary.NextMarker)
		})
	}
}

func TestPagerMidPaginationFault(t *testing.T) {
	boom := &smithy.GenericAPIError{Code: "Throttling", Message: "slow down"}
	f := &fakeLister{pages: []page{{items: 3, next: "t1"}, {err: boom}, {items: 3}}}
	got, sink := collect()

	summary := newPager(f).Run(context.Background(), &listIn{}, PageOptions{}, sink)

	require.Equal(t, StateFaulted, summary.State)
	require.Len(t, f.requests, 2)
	require.Len(t, *got, 2)
	require.True(t, (*got)[0].OK())
	require.Len(t, (*got)[0].Payload.([]string), 3)
	require.False(t, (*got)[1].OK())
	require.Equal(t, "rate_limited", (*got)[1].Fault.Code)
	require.True(t, (*got)[1].Fault.Retryable)
	marker, _ := (*got)[1].Note(NoteMarker)
	require.Equal(t, "t1", marker)
	require.ErrorIs(t, summary.Err(), boom)
}

func TestPagerEmptyPageWithMarkerContinues(t *testing.T) {
	f := &fakeLister{pages: []page{{items: 0, next: "t1"}, {items: 0, next: "t2"}, {items: 4}}}
	summary := newPager(f).Run(context.Background(), &listIn{}, PageOptions{}, nil)
	require.Equal(t, StateDone, summary.State)
	require.Equal(t, 3, summary.Pages)
	require.Equal(t, 4, summary.Items)
}

func TestPagerStopsOnStaleMarker(t *testing.T) {
	f := &fakeLister{pages: []page{{items: 0, next: "same"}, {items: 0, next: "same"}, {items: 0, next: "same"}}}
	got, sink := collect()
	summary := newPager(f).Run(context.Background(), &listIn{}, PageOptions{}, sink)
	require.Equal(t, StateDone, summary.State)
	require.Equal(t, 2, summary.Pages)
	stale, ok := (*got)[1].Note(NoteStaleMarker)
	require.True(t, ok)
	require.Equal(t, true, stale)
}

func TestPagerMaxPages(t *testing.T) {
	f := &fakeLister{pages: []page{{items: 1, next: "a"}, {items: 1, next: "b"}, {items: 1, next: "c"}}}
	p := newPager(f)
	p.MaxPages = 2
	summary := p.Run(context.Background(), &listIn{}, PageOptions{}, nil)
	require.Equal(t, 2, summary.Pages)
	require.Equal(t, "b", summary.NextMarker)
}

func TestPagerCancellationBetweenPages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := &fakeLister{pages: []page{{items: 1, next: "a"}, {items: 1}}}
	got, sink := collect()
	p := newPager(f)
	p.Call = func(c context.Context, in *listIn, opts ...option) (*listOut, error) {
		out, err := f.List(c, in, opts...)
		cancel()
		return out, err
	}
	summary := p.Run(ctx, &listIn{}, PageOptions{}, sink)
	require.Equal(t, StateFaulted, summary.State)
	require.Len(t, f.requests, 1)
	require.Len(t, *got, 2)
	require.Equal(t, "canceled", (*got)[1].Fault.Code)
}

func TestPagerPayloadBuilder(t *testing.T) {
	f := &fakeLister{pages: []page{{items: 2}}}
	p := newPager(f)
	p.Payload = func(out *listOut, items []string) any {
		return map[string]any{"names": items, "truncated": out.IsTruncated}
	}
	summary := p.Run(context.Background(), nil, PageOptions{}, nil)
	require.Equal(t, map[string]any{"names": []string{"p1-0", "p1-1"}, "truncated": false}, summary.Envelopes[0].Payload)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		kind      FaultKind
		code      string
		retryable bool
	}{
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, KindService, "forbidden", false},
		{"exists", &smithy.GenericAPIError{Code: "EntityAlreadyExists"}, KindService, "already_exists", false},
		{"limit", &smithy.GenericAPIError{Code: "LimitExceeded"}, KindService, "quota_exceeded", false},
		{"conflict", &smithy.GenericAPIError{Code: "DeleteConflict"}, KindService, "conflict", false},
		{"malformed", &smithy.GenericAPIError{Code: "MalformedPolicyDocument"}, KindValidation, "invalid_request", false},
		{"service failure", &smithy.GenericAPIError{Code: "ServiceFailure"}, KindService, "upstream_unavailable", true},
		{"other code", &smithy.GenericAPIError{Code: "Weird"}, KindService, "upstream_error", false},
		{"deadline", context.DeadlineExceeded, KindTransport, "timeout", true},
		{"dns", &net.DNSError{Name: "iam.example.invalid", Err: "no such host", IsNotFound: true}, KindTransport, "name_resolution", false},
		{"op error", &net.OpError{Op: "dial", Err: errors.New("refused")}, KindTransport, "connectivity", true},
		{"local", errors.New("bad"), KindLocal, "internal", false},
		{"required", Required("roleName"), KindValidation, "missing_parameter", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fault := Classify(fmt.Errorf("wrapped: %w", tc.err))
			require.Equal(t, tc.kind, fault.Kind)
			require.Equal(t, tc.code, fault.Code)
			require.Equal(t, tc.retryable, fault.Retryable)
		})
	}
	require.Nil(t, Classify(nil))
}

func TestClassifyDNSNamesHost(t *testing.T) {
	fault := Classify(&net.DNSError{Name: "iam.bogus-region.amazonaws.com", Err: "no such host"})
	require.Contains(t, fault.Message, "iam.bogus-region.amazonaws.com")
	require.Contains(t, fault.Hint, "region")
}

func TestGate(t *testing.T) {
	var asked []string
	confirm := func(op, resource string) bool {
		asked = append(asked, op+" "+resource)
		return resource == "ok"
	}
	require.Nil(t, Gate(confirm, false, "delete_role", "ok"))
	fault := Gate(confirm, false, "delete_role", "no")
	require.NotNil(t, fault)
	require.Equal(t, KindDeclined, fault.Kind)
	require.ErrorIs(t, fault, ErrDeclined)
	require.Nil(t, Gate(confirm, true, "delete_role", "no"))
	require.Equal(t, []string{"delete_role ok", "delete_role no"}, asked)
	require.NotNil(t, Gate(nil, false, "delete_role", "x"))
	require.Nil(t, Gate(AlwaysConfirm, false, "delete_role", "x"))
}
