package rendervk

import (
	"runtime"
	"unsafe"
)

// PlatformOS names the running GOOS the way the rest of the wrapper layer
// expects it ("Darwin", "Linux", "Windows"), since Vulkan portability
// quirks (VK_KHR_portability_subset, the enumerate-portability instance
// flag) are keyed off the platform name rather than runtime.GOOS directly.
var PlatformOS = platformName()

func platformName() string {
	switch runtime.GOOS {
	case "darwin":
		return "Darwin"
	case "windows":
		return "Windows"
	default:
		return "Linux"
	}
}

// safeString returns a NUL-terminated copy of s, the form every Vulkan
// PEnabled*Names / PApplicationName field expects from this binding.
func safeString(s string) string {
	if len(s) == 0 || s[len(s)-1] != 0 {
		return s + "\x00"
	}
	return s
}

func safeStrings(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = safeString(s)
	}
	return out
}

// sliceUint32 reinterprets a SPIR-V byte blob as the uint32 words
// vk.ShaderModuleCreateInfo.PCode expects. Callers must validate the
// SPIR-V magic and length (see ValidateSpirv) before calling this.
func sliceUint32(data []byte) []uint32 {
	const wordSize = 4
	out := make([]uint32, len(data)/wordSize)
	for i := range out {
		p := (*uint32)(unsafe.Pointer(&data[i*wordSize]))
		out[i] = *p
	}
	return out
}
