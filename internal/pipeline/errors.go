package pipeline

import "fmt"

// StepNotFoundError reports a configured step reference that did not
// resolve to any orchestrator method, module function, or type method.
// Position is the step's zero-based index in the configured list.
type StepNotFoundError struct {
	Raw      string
	Position int
	Reason   string
}

func (e *StepNotFoundError) Error() string {
	return fmt.Sprintf("step %d (%q): %s", e.Position+1, e.Raw, e.Reason)
}

// ConstructorResolutionError reports a type whose constructor could not be
// satisfied from the build state.
type ConstructorResolutionError struct {
	Type  string
	Param string
	Err   error
}

func (e *ConstructorResolutionError) Error() string {
	switch {
	case e.Err != nil && e.Param != "":
		return fmt.Sprintf("cannot construct %s: parameter %q: %v", e.Type, e.Param, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("cannot construct %s: %v", e.Type, e.Err)
	default:
		return fmt.Sprintf("cannot construct %s: no resolver for constructor parameter %q", e.Type, e.Param)
	}
}

func (e *ConstructorResolutionError) Unwrap() error { return e.Err }

// ArgumentResolutionError reports a resolved step that could not be invoked
// because its arguments did not fit the callable's signature. It is
// reported as an error outcome for that step, subject to the run policy.
type ArgumentResolutionError struct {
	Target string
	Err    error
}

func (e *ArgumentResolutionError) Error() string {
	return fmt.Sprintf("cannot invoke %s: %v", e.Target, e.Err)
}

func (e *ArgumentResolutionError) Unwrap() error { return e.Err }
