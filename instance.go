package rendervk

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

// DefaultValidationLayers lists the validation layers requested when the
// engine is built with debugging enabled.
func DefaultValidationLayers() []string {
	return []string{
		"VK_LAYER_KHRONOS_synchronization2",
		"VK_LAYER_KHRONOS_validation",
	}
}

// DefaultDeviceExtensions lists the device extensions the engine requires:
// VK_KHR_swapchain, plus VK_KHR_portability_subset on macOS.
func DefaultDeviceExtensions() []string {
	exts := []string{"VK_KHR_swapchain"}
	if PlatformOS == "Darwin" {
		exts = append(exts, "VK_KHR_portability_subset")
	}
	return exts
}

// CreateInstance builds a vk.Instance requesting window's required
// extensions plus layers, following the portability-enumeration quirk
// macOS's MoltenVK loader needs.
func CreateInstance(appName, engineName string, window *glfw.Window, layers []string) (vk.Instance, error) {
	required := window.GetRequiredInstanceExtensions()
	extSet := NewBaseInstanceExtensions(nil, required)
	if ok, missing := extSet.HasRequired(); !ok {
		return vk.NullInstance, fmt.Errorf("rendervk: instance missing required extensions: %v", missing)
	}
	enabledExtensions := extSet.GetExtensions()

	enabledLayers := layers
	if len(layers) > 0 {
		layerSet := NewBaseLayerExtensions(layers)
		if ok, missing := layerSet.HasWanted(); !ok {
			warnf("validation layers unavailable, continuing without them: %v", missing)
			enabledLayers = nil
		} else {
			enabledLayers = layerSet.GetExtensions()
		}
	}

	var flags vk.InstanceCreateFlags
	if PlatformOS == "Darwin" {
		flags = vk.InstanceCreateFlags(0x00000001) // VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT
	}

	var instance vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			ApiVersion:         uint32(vk.MakeVersion(1, 1, 0)),
			ApplicationVersion: uint32(vk.MakeVersion(1, 1, 0)),
			PApplicationName:   safeString(appName),
			PEngineName:        safeString(engineName),
		},
		EnabledExtensionCount:   uint32(len(enabledExtensions)),
		PpEnabledExtensionNames: safeStrings(enabledExtensions),
		EnabledLayerCount:       uint32(len(enabledLayers)),
		PpEnabledLayerNames:     safeStrings(enabledLayers),
		Flags:                   flags,
	}, nil, &instance)
	if err := NewError(ret); err != nil {
		return vk.NullInstance, err
	}

	if PlatformOS == "Darwin" {
		vk.InitInstance(instance)
	}
	return instance, nil
}

// EnableDebugReportCallback registers a debug report callback that routes
// Vulkan validation messages through logs instead of stderr.
func EnableDebugReportCallback(instance vk.Instance, logs *Loggers) (vk.DebugReportCallback, error) {
	var callback vk.DebugReportCallback
	ret := vk.CreateDebugReportCallback(instance, &vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit),
		PfnCallback: newDebugCallback(logs),
	}, nil, &callback)
	if err := NewError(ret); err != nil {
		return vk.NullDebugReportCallback, err
	}
	return callback, nil
}

func newDebugCallback(logs *Loggers) vk.DebugReportCallbackFunction {
	return func(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
		object uint64, location uint, messageCode int32, pLayerPrefix string,
		pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

		switch {
		case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
			logs.Error.Printf("[%s] code %d: %s", pLayerPrefix, messageCode, pMessage)
		case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
			logs.Warn.Printf("[%s] code %d: %s", pLayerPrefix, messageCode, pMessage)
		default:
			logs.Info.Printf("[%s] code %d: %s", pLayerPrefix, messageCode, pMessage)
		}
		return vk.Bool32(vk.False)
	}
}
