package mcp

import (
	"errors"
	"fmt"

	"iamkit/internal/invoke"
	"iamkit/internal/policy"
)

func unknownToolFault(name string) *invoke.Fault {
	return &invoke.Fault{
		Kind:    invoke.KindValidation,
		Code:    "unknown_operation",
		Message: fmt.Sprintf("operation %q is not registered", name),
		Hint:    "List operations to see what is enabled; read_only and disable_destructive hide mutating ones.",
	}
}

func unavailableFault(reason string) *invoke.Fault {
	return &invoke.Fault{
		Kind:    invoke.KindLocal,
		Code:    "unavailable",
		Message: reason,
		Hint:    "Check server logs for details.",
	}
}

func authorizationFault(err error) *invoke.Fault {
	code := "unauthorized"
	if errors.Is(err, policy.ErrToolNotAllowed) {
		code = "tool_not_allowed"
	}
	return &invoke.Fault{
		Kind:    invoke.KindLocal,
		Code:    code,
		Message: err.Error(),
		Hint:    "Adjust allowed_tools in the configuration.",
		Err:     err,
	}
}

func panicFault(recovered any) *invoke.Fault {
	return &invoke.Fault{
		Kind:    invoke.KindLocal,
		Code:    "internal",
		Message: fmt.Sprintf("operation panicked: %v", recovered),
		Hint:    "Check server logs for details.",
	}
}

// ClientFault wraps a failure to build an SDK client (credentials, profile, region).
func ClientFault(err error) *invoke.Fault {
	fault := invoke.Classify(err)
	if fault.Kind == invoke.KindLocal {
		fault.Code = "client_config"
		fault.Hint = "Check the AWS profile, region and credentials."
	}
	return fault
}
