package invoke

import "context"

// Void selects no payload; use it for operations whose response carries nothing useful.
func Void[Out any](*Out) any {
	return nil
}

// Do performs exactly one request against call and wraps the outcome. result selects
// the designated response field; nil keeps the whole response.
func Do[In, Out, Opt any](
	ctx context.Context,
	operation string,
	call func(context.Context, *In, ...Opt) (*Out, error),
	in *In,
	result func(*Out) any,
) Envelope {
	out, err := call(ctx, in)
	if err != nil {
		return Failure(operation, err)
	}
	if result == nil {
		return Success(operation, out, nil)
	}
	if out == nil {
		return Success(operation, nil, nil)
	}
	return Success(operation, result(out), nil)
}
