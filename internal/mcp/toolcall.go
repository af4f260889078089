package mcp

import (
	"context"

	"iamkit/internal/invoke"
	"iamkit/internal/policy"
)

// CallTool lets one operation invoke another through the shared invoker, so the nested
// call is authorized, gated and audited like any other.
func (t ToolContext) CallTool(ctx context.Context, user policy.User, toolName string, args map[string]any, sink invoke.Sink) ToolResult {
	if t.Invoker == nil {
		env := invoke.Failure(toolName, unavailableFault("tool invoker not available"))
		sink.Emit(env)
		return ToolResult{Envelopes: []invoke.Envelope{env}}
	}
	return t.Invoker.Call(ctx, user, toolName, args, sink)
}
