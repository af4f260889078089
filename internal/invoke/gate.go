package invoke

// ConfirmFunc decides whether a mutating operation on resource may proceed.
type ConfirmFunc func(operation, resource string) bool

// AlwaysConfirm approves every operation.
func AlwaysConfirm(string, string) bool { return true }

// Gate consults confirm unless override is set. A nil confirm declines.
func Gate(confirm ConfirmFunc, override bool, operation, resource string) *Fault {
	if override {
		return nil
	}
	if confirm != nil && confirm(operation, resource) {
		return nil
	}
	return Declined(operation, resource)
}
