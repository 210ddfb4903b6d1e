package assist

import "fmt"

// InvalidTaskError is returned for a request whose type is not summary, experience or improve.
type InvalidTaskError struct {
	Type string
}

func (e *InvalidTaskError) Error() string {
	return "Invalid type"
}

// EmptyOutputError is returned when nothing usable is left of the model response after cleanup.
type EmptyOutputError struct {
	Task Task
}

func (e *EmptyOutputError) Error() string {
	return fmt.Sprintf("model returned no usable %s content", e.Task)
}

// PromptError wraps a failure loading an embedded prompt.
type PromptError struct {
	Key   string
	Cause error
}

func (e *PromptError) Error() string {
	return fmt.Sprintf("failed to load prompt %s: %v", e.Key, e.Cause)
}

func (e *PromptError) Unwrap() error {
	return e.Cause
}
