package rendervk

import (
	"fmt"
	"runtime"

	vk "github.com/vulkan-go/vulkan"
)

// VkError wraps a non-success vk.Result with the call site that produced it.
type VkError struct {
	Result vk.Result
	frame  string
}

func (e *VkError) Error() string {
	if e.frame == "" {
		return fmt.Sprintf("vulkan error: %d", e.Result)
	}
	return fmt.Sprintf("vulkan error: %d on %s", e.Result, e.frame)
}

// NewError returns nil for vk.Success and a *VkError describing the call
// site otherwise, mirroring the wrapper layer's existing convention.
func NewError(ret vk.Result) error {
	if ret == vk.Success {
		return nil
	}
	frame := ""
	if pc, _, _, ok := runtime.Caller(1); ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			file, line := fn.FileLine(pc)
			frame = fmt.Sprintf("%s:%d", file, line)
		}
	}
	return &VkError{Result: ret, frame: frame}
}

func isError(ret vk.Result) bool {
	return ret != vk.Success
}

// Fatal panics with a non-nil error after running any supplied cleanup
// finalizers in order. The enumeration helpers in extensions.go call it
// and recover the panic into their returned error through checkErr; the
// graph package never calls it.
func Fatal(err error, finalizers ...func()) {
	if err == nil {
		return
	}
	for _, fn := range finalizers {
		fn()
	}
	panic(err)
}

func checkErr(err *error) {
	if v := recover(); v != nil {
		*err = fmt.Errorf("%+v", v)
	}
}
