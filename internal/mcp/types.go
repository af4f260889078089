package mcp

import (
	"context"

	"go.uber.org/zap"

	"iamkit/internal/audit"
	awslib "iamkit/internal/aws"
	"iamkit/internal/config"
	"iamkit/internal/invoke"
	"iamkit/internal/policy"
	"iamkit/internal/redact"
)

type ToolSafety string

const (
	SafetyReadOnly    ToolSafety = "read_only"
	SafetyWrite       ToolSafety = "write"
	SafetyRiskyWrite  ToolSafety = "risky_write"
	SafetyDestructive ToolSafety = "destructive"
)

// ToolHandler runs one operation. Paged handlers stream page envelopes through
// req.Emit; single-call handlers may simply return their envelope.
type ToolHandler func(ctx context.Context, req ToolRequest) ToolResult

type ToolSpec struct {
	Name        string
	Description string
	ToolsetID   string
	InputSchema map[string]any
	Safety      ToolSafety
	// Target names the argument identifying the affected resource.
	Target  string
	Paged   bool
	Handler ToolHandler
}

func (s ToolSpec) Mutating() bool {
	return s.Safety != SafetyReadOnly
}

type ToolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Safety      ToolSafety     `json:"safety"`
	Paged       bool           `json:"paged,omitempty"`
	InputSchema map[string]any `json:"inputSchema"`
}

type ToolRequest struct {
	Arguments Args
	User      policy.User
	Context   ToolContext
	Emit      invoke.Sink
	Progress  func(invoke.Progress)
}

type ToolResult struct {
	Envelopes []invoke.Envelope `json:"envelopes"`
	Metadata  ToolMetadata      `json:"metadata,omitempty"`
}

type ToolMetadata struct {
	Region    string   `json:"region,omitempty"`
	Resources []string `json:"resources,omitempty"`
}

// Faulted reports whether any envelope carries a fault.
func (r ToolResult) Faulted() bool {
	for _, env := range r.Envelopes {
		if !env.OK() {
			return true
		}
	}
	return false
}

type ToolContext struct {
	Config   *config.Config
	Logger   *zap.Logger
	Policy   *policy.Authorizer
	Redactor *redact.Redactor
	Audit    *audit.Logger
	Clients  *awslib.Pool
	// Confirm is consulted for mutating operations; nil declines unless overridden.
	Confirm invoke.ConfirmFunc
	Force   bool
	Invoker *ToolInvoker
}

type ToolsetContext = ToolContext

// Single wraps one envelope as a result.
func Single(env invoke.Envelope, region string, resources ...string) ToolResult {
	return ToolResult{Envelopes: []invoke.Envelope{env}, Metadata: ToolMetadata{Region: region, Resources: resources}}
}
