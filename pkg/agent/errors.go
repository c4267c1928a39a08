package agent

import "fmt"

// RetrievalError marks a single source's failure inside the fan-out.
// It is always converted to an empty result set and never propagates
// past the gather step.
type RetrievalError struct {
	Source SourceKind
	Err    error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval failed for source %s: %v", e.Source, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// ModelError marks a failed LLM call. Fatal: the workflow cannot continue
// without the stage output.
type ModelError struct {
	Stage string
	Err   error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model call failed in %s stage: %v", e.Stage, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// StorageError marks a failed conversation-store operation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// WorkflowError wraps any fatal stage failure surfaced to the caller.
type WorkflowError struct {
	Step Step
	Err  error
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("workflow failed at step %s: %v", e.Step, e.Err)
}

func (e *WorkflowError) Unwrap() error { return e.Err }
