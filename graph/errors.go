package graph

import "fmt"

// CompileErrorKind classifies why GraphBuilder.Compile failed.
type CompileErrorKind int

const (
	// ErrConfiguration covers a missing required pass field or a
	// pipeline layout that does not match the union of its bound set
	// layouts plus declared push-constant ranges.
	ErrConfiguration CompileErrorKind = iota
	// ErrDanglingBind is a bind() call naming a transient or set handle
	// unknown to the builder, or naming a transient with no producing
	// pass.
	ErrDanglingBind
	// ErrDuplicateProducer is two passes targeting the same transient.
	ErrDuplicateProducer
	// ErrTransientAllocation is a device allocation failure while the
	// TransientPool was realizing a TransientTargetDecl.
	ErrTransientAllocation
)

func (k CompileErrorKind) String() string {
	switch k {
	case ErrConfiguration:
		return "configuration"
	case ErrDanglingBind:
		return "dangling bind"
	case ErrDuplicateProducer:
		return "duplicate transient producer"
	case ErrTransientAllocation:
		return "transient allocation failed"
	default:
		return "unknown"
	}
}

// CompileError is returned by GraphBuilder.Compile. Handle names the
// offending transient or set when the kind is handle-scoped; it is zero
// otherwise.
type CompileError struct {
	Kind    CompileErrorKind
	Handle  uint32
	Pass    string
	Message string
	Err     error
}

func (e *CompileError) Error() string {
	if e.Pass != "" {
		return fmt.Sprintf("compile: %s (pass %q): %s", e.Kind, e.Pass, e.Message)
	}
	return fmt.Sprintf("compile: %s: %s", e.Kind, e.Message)
}

func (e *CompileError) Unwrap() error { return e.Err }

func danglingBind(handle uint32, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: ErrDanglingBind, Handle: handle, Message: fmt.Sprintf(format, args...)}
}

func duplicateProducer(handle uint32, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: ErrDuplicateProducer, Handle: handle, Message: fmt.Sprintf(format, args...)}
}

func configurationError(pass string, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: ErrConfiguration, Pass: pass, Message: fmt.Sprintf(format, args...)}
}

func transientAllocationError(handle uint32, err error) *CompileError {
	return &CompileError{Kind: ErrTransientAllocation, Handle: handle, Message: err.Error(), Err: err}
}

// ExecuteStatus is the result of one Graph.Execute call. Execute never
// panics on a transient present failure; callers branch on this value
// instead of treating every non-nil error as fatal.
type ExecuteStatus int

const (
	// Presented: the frame was recorded, submitted and presented.
	Presented ExecuteStatus = iota
	// NeedsRecreate: acquire or present returned OUT_OF_DATE/SUBOPTIMAL;
	// the caller must run the resize protocol and retry next frame.
	NeedsRecreate
	// DeviceLost: a Vulkan call returned DEVICE_LOST; unrecoverable.
	DeviceLost
	// Timeout: a fence wait exceeded its configured bound.
	Timeout
)

func (s ExecuteStatus) String() string {
	switch s {
	case Presented:
		return "presented"
	case NeedsRecreate:
		return "needs recreate"
	case DeviceLost:
		return "device lost"
	case Timeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// ExecuteError wraps the Vulkan result behind a non-Presented status.
type ExecuteError struct {
	Status ExecuteStatus
	Err    error
}

func (e *ExecuteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("execute: %s: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("execute: %s", e.Status)
}

func (e *ExecuteError) Unwrap() error { return e.Err }
