package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdkjsonrpc "github.com/modelcontextprotocol/go-sdk/jsonrpc"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"iamkit/internal/invoke"
)

// RegisterSDKTools exposes every registered operation as an MCP tool. MCP clients cannot
// answer a prompt, so mutating operations need confirm=true in their arguments.
func RegisterSDKTools(server *sdkmcp.Server, reg *ToolRegistry, ctx ToolContext) ([]string, error) {
	if server == nil || reg == nil {
		return nil, fmt.Errorf("server and registry are required")
	}
	if ctx.Invoker == nil || ctx.Invoker.Registry() != reg {
		ctx.Invoker = NewToolInvoker(reg, ctx)
	}
	toolNames := reg.Names()
	for _, spec := range reg.Specs() {
		schema := spec.InputSchema
		if schema == nil {
			schema = map[string]any{"type": "object"}
		}
		tool := &sdkmcp.Tool{
			Name:        spec.Name,
			Description: spec.Description,
			InputSchema: schema,
			Annotations: toolAnnotations(spec),
		}
		server.AddTool(tool, toolHandler(spec, ctx))
	}
	return toolNames, nil
}

func toolAnnotations(spec ToolSpec) *sdkmcp.ToolAnnotations {
	destructive := spec.Safety == SafetyDestructive || spec.Safety == SafetyRiskyWrite
	return &sdkmcp.ToolAnnotations{
		ReadOnlyHint:    spec.Safety == SafetyReadOnly,
		DestructiveHint: &destructive,
	}
}

func toolHandler(spec ToolSpec, ctx ToolContext) sdkmcp.ToolHandler {
	return func(callCtx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
		args := map[string]any{}
		if req != nil && req.Params != nil && len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return nil, &sdkjsonrpc.Error{Code: sdkjsonrpc.CodeInvalidParams, Message: fmt.Sprintf("invalid arguments: %v", err)}
			}
		}

		user, err := ctx.Policy.Authenticate(apiKeyFromRequest(req))
		if err != nil {
			return nil, &sdkjsonrpc.Error{Code: -32001, Message: err.Error()}
		}

		result := ctx.Invoker.Call(callCtx, user, spec.Name, args, nil)
		return buildCallToolResult(result, ctx), nil
	}
}

func buildCallToolResult(result ToolResult, ctx ToolContext) *sdkmcp.CallToolResult {
	res := &sdkmcp.CallToolResult{IsError: result.Faulted()}
	if result.Metadata.Region != "" || len(result.Metadata.Resources) > 0 {
		res.Meta = sdkmcp.Meta{
			"region":    result.Metadata.Region,
			"resources": result.Metadata.Resources,
		}
	}

	var content any = map[string]any{"envelopes": envelopesOrEmpty(result.Envelopes)}
	if ctx.Redactor != nil && (ctx.Config == nil || ctx.Config.Redact.Enabled()) {
		content = ctx.Redactor.RedactValue(content)
	}
	res.StructuredContent = content

	data, err := json.Marshal(content)
	if err != nil {
		res.Content = []sdkmcp.Content{&sdkmcp.TextContent{Text: fmt.Sprintf("%v", content)}}
		return res
	}
	res.Content = []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}}
	return res
}

func envelopesOrEmpty(envs []invoke.Envelope) []invoke.Envelope {
	if envs == nil {
		return []invoke.Envelope{}
	}
	return envs
}

func apiKeyFromRequest(req *sdkmcp.CallToolRequest) string {
	if req == nil {
		return ""
	}
	if req.Params != nil {
		if value := apiKeyFromMeta(req.Params.Meta); value != "" {
			return value
		}
	}
	if req.Extra != nil && req.Extra.Header != nil {
		if value := strings.TrimSpace(req.Extra.Header.Get("X-Api-Key")); value != "" {
			return value
		}
		authHeader := strings.TrimSpace(req.Extra.Header.Get("Authorization"))
		if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			return strings.TrimSpace(authHeader[len("bearer "):])
		}
	}
	return ""
}

func apiKeyFromMeta(meta map[string]any) string {
	if meta == nil {
		return ""
	}
	if value, ok := meta["apiKey"].(string); ok {
		return value
	}
	if auth, ok := meta["auth"].(map[string]any); ok {
		if value, ok := auth["apiKey"].(string); ok {
			return value
		}
	}
	return ""
}
