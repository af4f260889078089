package invoke

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/aws/smithy-go"
)

type FaultKind string

const (
	KindValidation FaultKind = "validation"
	KindService    FaultKind = "service"
	KindTransport  FaultKind = "transport"
	KindDeclined   FaultKind = "declined"
	KindLocal      FaultKind = "local"
)

// Fault describes why an invocation failed.
type Fault struct {
	Kind      FaultKind `json:"kind"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Hint      string    `json:"hint,omitempty"`
	Retryable bool      `json:"retryable"`
	Err       error     `json:"-"`
}

func (f *Fault) Error() string {
	if f == nil {
		return ""
	}
	return f.Message
}

func (f *Fault) Unwrap() error {
	if f == nil {
		return nil
	}
	return f.Err
}

var ErrDeclined = errors.New("operation declined")

// Required is the validation fault for a missing required parameter.
func Required(name string) *Fault {
	return &Fault{
		Kind:    KindValidation,
		Code:    "missing_parameter",
		Message: fmt.Sprintf("%s is required", name),
		Hint:    "Supply the parameter and retry.",
	}
}

// Invalid is the validation fault for a malformed parameter.
func Invalid(name string, err error) *Fault {
	return &Fault{
		Kind:    KindValidation,
		Code:    "invalid_parameter",
		Message: fmt.Sprintf("%s: %v", name, err),
		Hint:    "Fix the parameter value and retry.",
		Err:     err,
	}
}

func Declined(operation, resource string) *Fault {
	msg := fmt.Sprintf("%s declined", operation)
	if resource != "" {
		msg = fmt.Sprintf("%s on %s declined", operation, resource)
	}
	return &Fault{
		Kind:    KindDeclined,
		Code:    "declined",
		Message: msg,
		Hint:    "Confirm the operation or pass force/confirm to skip the prompt.",
		Err:     ErrDeclined,
	}
}

// Classify maps any error raised while invoking an operation into a Fault.
func Classify(err error) *Fault {
	if err == nil {
		return nil
	}
	var fault *Fault
	if errors.As(err, &fault) {
		return fault
	}
	msg := err.Error()
	if errors.Is(err, context.DeadlineExceeded) {
		return &Fault{Kind: KindTransport, Code: "timeout", Message: msg, Hint: "Increase the timeout or check network latency to the endpoint.", Retryable: true, Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return &Fault{Kind: KindTransport, Code: "canceled", Message: msg, Hint: "Request was canceled before completion.", Retryable: true, Err: err}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return classifyAPIError(apiErr, err)
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Fault{
			Kind:      KindTransport,
			Code:      "name_resolution",
			Message:   fmt.Sprintf("cannot resolve endpoint host %q: %s", dnsErr.Name, msg),
			Hint:      "Check the region, any endpoint override, proxy settings and network connectivity.",
			Retryable: dnsErr.IsTemporary || dnsErr.IsTimeout,
			Err:       err,
		}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &Fault{
			Kind:      KindTransport,
			Code:      "connectivity",
			Message:   "cannot reach the IAM endpoint: " + msg,
			Hint:      "Check network connectivity and proxy settings.",
			Retryable: true,
			Err:       err,
		}
	}

	return &Fault{Kind: KindLocal, Code: "internal", Message: msg, Hint: "Check logs for details.", Err: err}
}

func classifyAPIError(apiErr smithy.APIError, err error) *Fault {
	msg := err.Error()
	code := apiErr.ErrorCode()
	fault := &Fault{Kind: KindService, Message: msg, Err: err}
	switch {
	case code == "AccessDenied" || code == "AccessDeniedException" || code == "UnauthorizedOperation":
		fault.Code, fault.Hint = "forbidden", "Check AWS credentials and IAM policies."
	case strings.HasPrefix(code, "Throttling") || code == "RequestLimitExceeded" || code == "TooManyRequestsException":
		fault.Code, fault.Hint, fault.Retryable = "rate_limited", "Retry with backoff.", true
	case code == "NoSuchEntity" || strings.Contains(code, "NotFound"):
		fault.Code, fault.Hint = "not_found", "Verify the entity name or ARN."
	case code == "EntityAlreadyExists":
		fault.Code, fault.Hint = "already_exists", "Choose a different name or reuse the existing entity."
	case code == "DeleteConflict" || code == "UnmodifiableEntity" || code == "ConflictException" || code == "ConcurrentModification":
		fault.Code, fault.Hint = "conflict", "Detach or remove dependent entities first."
	case code == "EntityTemporarilyUnmodifiable":
		fault.Code, fault.Hint, fault.Retryable = "conflict", "The entity is being modified; retry shortly.", true
	case code == "LimitExceeded":
		fault.Code, fault.Hint = "quota_exceeded", "An IAM quota was reached; delete unused entities or request an increase."
	case code == "MalformedPolicyDocument" || code == "InvalidInput" || code == "ValidationError" ||
		code == "ValidationException" || code == "PasswordPolicyViolation" || strings.HasPrefix(code, "InvalidParameter"):
		fault.Kind, fault.Code, fault.Hint = KindValidation, "invalid_request", "Fix request parameters."
	case code == "ServiceFailure" || code == "ServiceUnavailable":
		fault.Code, fault.Hint, fault.Retryable = "upstream_unavailable", "IAM reported an internal failure; retry later.", true
	default:
		fault.Code, fault.Hint = "upstream_error", "AWS API error; verify inputs."
	}
	return fault
}
