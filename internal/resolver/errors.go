package resolver

import "fmt"

// Error is a reference that could not be resolved. References declared by an
// operation name the service and operation that declared them.
type Error struct {
	Ref       string
	Service   string
	Operation string
	Reason    string
	Err       error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("could not resolve schema reference %q", e.Ref)
	if e.Service != "" || e.Operation != "" {
		msg += fmt.Sprintf(" for service %s, operation %s", e.Service, e.Operation)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}
