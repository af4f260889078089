package sdk

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestRegisterAndListToolsets(t *testing.T) {
	id := fmt.Sprintf("sdk-test-%d", time.Now().UnixNano())
	err := RegisterToolset(id, func() Toolset { return nil })
	if err != nil {
		t.Fatalf("register toolset: %v", err)
	}
	toolsets := RegisteredToolsets()
	found := false
	for _, name := range toolsets {
		if name == id {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected toolset id %s in list", id)
	}
}

func TestMustRegisterToolset(t *testing.T) {
	id := fmt.Sprintf("sdk-must-%d", time.Now().UnixNano())
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	MustRegisterToolset(id, func() Toolset { return nil })
}

type widgetInput struct {
	Marker   *string
	MaxItems *int32
}

type widgetOutput struct {
	Widgets     []string
	IsTruncated bool
	Marker      *string
}

type widgetOption struct{}

func listWidgets(_ context.Context, in *widgetInput, _ ...widgetOption) (*widgetOutput, error) {
	if in.Marker == nil {
		next := "page-2"
		return &widgetOutput{Widgets: []string{"a", "b"}, IsTruncated: true, Marker: &next}, nil
	}
	return &widgetOutput{Widgets: []string{"c"}}, nil
}

func TestPagerRunsThroughWrapper(t *testing.T) {
	pager := Pager[widgetInput, widgetOutput, string, widgetOption]{
		Operation:   "widgets.list",
		Call:        listWidgets,
		SetMarker:   func(in *widgetInput, marker *string) { in.Marker = marker },
		SetPageSize: func(in *widgetInput, size *int32) { in.MaxItems = size },
		NextMarker:  func(out *widgetOutput) *string { return out.Marker },
		Truncated:   func(out *widgetOutput) bool { return out.IsTruncated },
		Items:       func(out *widgetOutput) []string { return out.Widgets },
	}
	var pages []Envelope
	summary := pager.Run(context.Background(), &widgetInput{}, PageOptions{}, func(env Envelope) {
		pages = append(pages, env)
	})
	if summary.Err() != nil {
		t.Fatalf("unexpected error: %v", summary.Err())
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if items, ok := pages[1].Payload.([]string); !ok || len(items) != 1 || items[0] != "c" {
		t.Fatalf("unexpected final page: %#v", pages[1].Payload)
	}
}

func TestDoWrapsFault(t *testing.T) {
	call := func(context.Context, *widgetInput, ...widgetOption) (*widgetOutput, error) {
		return nil, errors.New("boom")
	}
	env := Do(context.Background(), "widgets.get", call, &widgetInput{}, Void[widgetOutput])
	if env.OK() || env.Fault == nil {
		t.Fatalf("expected fault envelope, got %#v", env)
	}
}

func TestGateDeclinesWithoutConfirm(t *testing.T) {
	fault := Gate(nil, false, "widgets.delete", "w-1")
	if fault == nil || fault.Kind != KindDeclined {
		t.Fatalf("expected declined fault, got %#v", fault)
	}
	if Gate(nil, true, "widgets.delete", "w-1") != nil {
		t.Fatalf("override should pass the gate")
	}
}
