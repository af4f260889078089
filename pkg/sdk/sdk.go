// Package sdk is the public surface for building toolsets outside this module. It
// re-exports the operation engines, the envelope model and the toolset registry.
package sdk

import (
	"context"

	"iamkit/internal/invoke"
	"iamkit/internal/mcp"
	"iamkit/internal/policy"
	"iamkit/internal/redact"
	"iamkit/internal/render"
)

// Core toolset interfaces and types.
type Toolset = mcp.Toolset

type ToolsetContext = mcp.ToolsetContext

type ToolsetFactory = mcp.ToolsetFactory

type ToolSpec = mcp.ToolSpec

type ToolHandler = mcp.ToolHandler

type ToolSafety = mcp.ToolSafety

type ToolRequest = mcp.ToolRequest

type ToolResult = mcp.ToolResult

type ToolMetadata = mcp.ToolMetadata

type Registry = mcp.Registry

type Args = mcp.Args

const (
	SafetyReadOnly    = mcp.SafetyReadOnly
	SafetyWrite       = mcp.SafetyWrite
	SafetyRiskyWrite  = mcp.SafetyRiskyWrite
	SafetyDestructive = mcp.SafetyDestructive
)

// Toolset registration for plugin discovery.
func RegisterToolset(id string, factory ToolsetFactory) error {
	return mcp.RegisterToolset(id, factory)
}

func MustRegisterToolset(id string, factory ToolsetFactory) {
	mcp.MustRegisterToolset(id, factory)
}

func RegisteredToolsets() []string {
	return mcp.RegisteredToolsets()
}

type ToolInvoker = mcp.ToolInvoker

// Results and faults.
type Envelope = invoke.Envelope

type Notes = invoke.Notes

type Sink = invoke.Sink

type Fault = invoke.Fault

type FaultKind = invoke.FaultKind

const (
	NoteNextMarker = invoke.NoteNextMarker
	NoteTruncated  = invoke.NoteTruncated
	NotePage       = invoke.NotePage
	NoteItems      = invoke.NoteItems

	KindValidation = invoke.KindValidation
	KindService    = invoke.KindService
	KindTransport  = invoke.KindTransport
	KindDeclined   = invoke.KindDeclined
	KindLocal      = invoke.KindLocal
)

func Success(operation string, payload any, notes Notes) Envelope {
	return invoke.Success(operation, payload, notes)
}

func Failure(operation string, err error) Envelope {
	return invoke.Failure(operation, err)
}

func Classify(err error) *Fault {
	return invoke.Classify(err)
}

func Single(env Envelope, region string, resources ...string) ToolResult {
	return mcp.Single(env, region, resources...)
}

// Do performs exactly one request and wraps the outcome in an envelope.
func Do[In, Out, Opt any](ctx context.Context, operation string, call func(context.Context, *In, ...Opt) (*Out, error), in *In, result func(*Out) any) Envelope {
	return invoke.Do(ctx, operation, call, in, result)
}

func Void[Out any](out *Out) any {
	return invoke.Void(out)
}

// Paging.
type PageOptions = invoke.PageOptions

type Progress = invoke.Progress

type Summary = invoke.Summary

// Pager mirrors the internal list engine so external toolsets can build one.
type Pager[In, Out, Item, Opt any] invoke.Pager[In, Out, Item, Opt]

func (p Pager[In, Out, Item, Opt]) Run(ctx context.Context, in *In, opts PageOptions, sink Sink) Summary {
	return invoke.Pager[In, Out, Item, Opt](p).Run(ctx, in, opts, sink)
}

// Confirmation.
type ConfirmFunc = invoke.ConfirmFunc

func Gate(confirm ConfirmFunc, override bool, operation, resource string) *Fault {
	return invoke.Gate(confirm, override, operation, resource)
}

// Output and redaction helpers.
type Renderer = render.Renderer

type Redactor = redact.Redactor

type User = policy.User
