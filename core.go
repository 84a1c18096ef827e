package rendervk

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

// RenderContext owns every piece of Vulkan state that outlives a single
// frame and that the graph package's compiled components are built
// against: the instance, the selected device, the window's display
// surface, the shared render pass pair, the command pool and the single
// descriptor pool every DescriptorResolver allocates from.
type RenderContext struct {
	Name     string
	Instance vk.Instance
	Device   *Device
	Display  *Display
	Usage    *Usage
	Logs     *Loggers

	RenderPasses   *RenderPassPair
	CommandPool    *CommandPool
	DescriptorPool vk.DescriptorPool
	GraphicsQueue  vk.Queue
	GraphicsFamily uint32

	debugCallback vk.DebugReportCallback
	debugEnabled  bool
}

// NewRenderContext assembles a RenderContext for window, assuming the
// caller has already called glfw.Init and vk.Init (or vk.InitInstance,
// on platforms requiring portability enumeration). debug controls
// whether validation layers and the debug report callback are enabled.
func NewRenderContext(appName string, window *glfw.Window, usage *Usage, logs *Loggers, debug bool) (*RenderContext, error) {
	var layers []string
	if debug {
		layers = DefaultValidationLayers()
	}

	instance, err := CreateInstance(appName, "rendergraph", window, layers)
	if err != nil {
		return nil, err
	}

	ctx := &RenderContext{Name: appName, Instance: instance, Usage: usage, Logs: logs}

	if debug {
		callback, err := EnableDebugReportCallback(instance, logs)
		if err != nil {
			logs.Warn.Printf("debug report callback unavailable: %v", err)
		} else {
			ctx.debugCallback = callback
			ctx.debugEnabled = true
		}
	}

	device, err := SelectDevice(instance, appName)
	if err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, err
	}
	ctx.Device = device

	display := NewDisplay(window)
	if err := display.CreateSurface(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, err
	}
	if err := display.ResolveFormats(device.Physical); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, err
	}
	ctx.Display = display

	if err := device.CreateLogical(DefaultDeviceExtensions(), layers); err != nil {
		vk.DestroySurface(instance, display.Surface, nil)
		vk.DestroyInstance(instance, nil)
		return nil, err
	}

	passes, err := CreateRenderPassPair(device.Handle, display.SurfaceFormat.Format, display.DepthFormat)
	if err != nil {
		ctx.Destroy()
		return nil, err
	}
	ctx.RenderPasses = passes

	queue, family, ok := device.Queues.BindGraphics()
	if !ok {
		ctx.Destroy()
		return nil, &VkError{Result: vk.ErrorFeatureNotPresent}
	}
	ctx.GraphicsQueue = queue
	ctx.GraphicsFamily = family
	pool, err := NewCommandPool(device.Handle, family)
	if err != nil {
		ctx.Destroy()
		return nil, err
	}
	ctx.CommandPool = pool

	descriptorPool, err := NewDescriptorPool(device.Handle, usage)
	if err != nil {
		ctx.Destroy()
		return nil, err
	}
	ctx.DescriptorPool = descriptorPool

	logs.Info.Printf("render context %q ready on device %q", appName, device.Properties.DeviceName)
	return ctx, nil
}

// Destroy releases every Vulkan object this context owns, in reverse
// dependency order. Safe to call on a partially constructed context.
func (ctx *RenderContext) Destroy() {
	if ctx.Device == nil || ctx.Device.Handle == vk.NullHandle {
		if ctx.Instance != vk.NullInstance {
			vk.DestroyInstance(ctx.Instance, nil)
		}
		return
	}
	vk.DeviceWaitIdle(ctx.Device.Handle)

	if ctx.DescriptorPool != vk.NullDescriptorPool {
		vk.DestroyDescriptorPool(ctx.Device.Handle, ctx.DescriptorPool, nil)
	}
	if ctx.CommandPool != nil {
		ctx.CommandPool.Destroy(ctx.Device.Handle)
	}
	if ctx.RenderPasses != nil {
		vk.DestroyRenderPass(ctx.Device.Handle, ctx.RenderPasses.Swapchain, nil)
		vk.DestroyRenderPass(ctx.Device.Handle, ctx.RenderPasses.Transient, nil)
	}
	vk.DestroyDevice(ctx.Device.Handle, nil)

	if ctx.Display != nil && ctx.Display.Surface != vk.NullSurface {
		vk.DestroySurface(ctx.Instance, ctx.Display.Surface, nil)
	}
	if ctx.debugEnabled {
		vk.DestroyDebugReportCallback(ctx.Instance, ctx.debugCallback, nil)
	}
	vk.DestroyInstance(ctx.Instance, nil)
}
