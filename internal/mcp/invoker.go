package mcp

import (
	"context"
	"time"

	"go.uber.org/zap"

	"iamkit/internal/audit"
	"iamkit/internal/invoke"
	"iamkit/internal/logging"
	"iamkit/internal/policy"
)

type ToolInvoker struct {
	reg *ToolRegistry
	ctx ToolContext
}

func NewToolInvoker(reg *ToolRegistry, ctx ToolContext) *ToolInvoker {
	inv := &ToolInvoker{reg: reg, ctx: ctx}
	inv.ctx.Invoker = inv
	return inv
}

// Call resolves toolName, authorizes it, runs the confirmation gate for mutating
// operations, then the handler under the operation timeout. Every envelope is forwarded
// to sink and the audit log as it is produced. Failures never escape as Go errors.
func (i *ToolInvoker) Call(ctx context.Context, user policy.User, toolName string, args map[string]any, sink invoke.Sink) (result ToolResult) {
	if i == nil || i.reg == nil {
		env := invoke.Failure(toolName, unavailableFault("tool registry not available"))
		sink.Emit(env)
		return ToolResult{Envelopes: []invoke.Envelope{env}}
	}
	log := logging.Nop(i.ctx.Logger)
	spec, ok := i.reg.Get(toolName)
	if !ok {
		env := invoke.Failure(toolName, unknownToolFault(toolName))
		i.record(spec, user, "", env, log)
		sink.Emit(env)
		return ToolResult{Envelopes: []invoke.Envelope{env}}
	}

	bound := Args(args)
	target := ""
	if spec.Target != "" {
		if value := bound.String(spec.Target); value != nil {
			target = *value
		}
	}

	var emitted []invoke.Envelope
	emit := func(env invoke.Envelope) {
		emitted = append(emitted, env)
		i.record(spec, user, target, env, log)
		sink.Emit(env)
	}
	fail := func(fault *invoke.Fault) ToolResult {
		env := invoke.Failure(spec.Name, fault)
		emit(env)
		return ToolResult{Envelopes: emitted}
	}

	if err := i.ctx.Policy.AuthorizeTool(user, spec.ToolsetID, spec.Name); err != nil {
		return fail(authorizationFault(err))
	}
	if spec.Mutating() {
		if fault := invoke.Gate(i.ctx.Confirm, i.ctx.Force || bound.Override(), spec.Name, target); fault != nil {
			return fail(fault)
		}
	}

	execCtx, cancel := withToolTimeout(ctx, i.ctx.Config, spec)
	defer cancel()
	defer func() {
		if recovered := recover(); recovered != nil {
			log.Error("operation panicked", zap.String("operation", spec.Name), zap.Any("panic", recovered))
			result = fail(panicFault(recovered))
		}
	}()

	started := time.Now()
	log.Debug("invoke", zap.String("operation", spec.Name), zap.String("target", target), zap.String("user", user.ID))
	result = spec.Handler(execCtx, ToolRequest{
		Arguments: bound,
		User:      user,
		Context:   i.ctx,
		Emit:      emit,
		Progress:  progressLogger(log, spec.Name),
	})
	if len(emitted) == 0 {
		for _, env := range result.Envelopes {
			emit(env)
		}
	}
	result.Envelopes = emitted
	log.Debug("invoked",
		zap.String("operation", spec.Name),
		zap.Int("envelopes", len(emitted)),
		zap.Bool("faulted", result.Faulted()),
		zap.Duration("elapsed", time.Since(started)),
	)
	return result
}

// Context returns the tool context with this invoker attached.
func (i *ToolInvoker) Context() ToolContext {
	return i.ctx
}

func (i *ToolInvoker) Registry() *ToolRegistry {
	if i == nil {
		return nil
	}
	return i.reg
}

func (i *ToolInvoker) record(spec ToolSpec, user policy.User, target string, env invoke.Envelope, log *zap.Logger) {
	if env.Fault != nil {
		log.Warn("operation fault",
			zap.String("operation", env.Operation),
			zap.String("kind", string(env.Fault.Kind)),
			zap.String("code", env.Fault.Code),
			zap.Bool("retryable", env.Fault.Retryable),
		)
	}
	logAudit(i.ctx, spec, user.ID, target, env)
}

func progressLogger(log *zap.Logger, operation string) func(invoke.Progress) {
	return func(p invoke.Progress) {
		log.Info("page fetched",
			zap.String("operation", operation),
			zap.Int("page", p.Page),
			zap.Int("items", p.Items),
			zap.String("marker", p.Marker),
		)
	}
}

func logAudit(ctx ToolContext, spec ToolSpec, userID, target string, env invoke.Envelope) {
	if ctx.Audit == nil {
		return
	}
	event := audit.Event{
		Timestamp: time.Now().UTC(),
		UserID:    userID,
		Tool:      env.Operation,
		Toolset:   spec.ToolsetID,
		Resource:  target,
		Outcome:   audit.OutcomeSuccess,
	}
	if page, ok := env.Note(invoke.NotePage); ok {
		event.Page, _ = page.(int)
	}
	if items, ok := env.Note(invoke.NoteItems); ok {
		event.Items, _ = items.(int)
	}
	if env.Fault != nil {
		event.Outcome = audit.OutcomeError
		if env.Fault.Kind == invoke.KindDeclined {
			event.Outcome = audit.OutcomeDeclined
		}
		event.FaultKind = string(env.Fault.Kind)
		event.FaultCode = env.Fault.Code
		event.Error = env.Fault.Message
		if ctx.Redactor != nil {
			event.Error = ctx.Redactor.RedactString(event.Error)
		}
	}
	ctx.Audit.Log(event)
}
