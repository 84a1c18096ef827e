package rendervk

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

// Display pairs a GLFW window with the Vulkan surface it presents to.
type Display struct {
	Window        *glfw.Window
	Extent        vk.Extent2D
	SurfaceFormat vk.SurfaceFormat
	DepthFormat   vk.Format
	Surface       vk.Surface
}

func NewDisplay(window *glfw.Window) *Display {
	return &Display{Window: window}
}

// CreateSurface realizes the window's platform surface against instance,
// required before any swapchain can be built against this display.
func (d *Display) CreateSurface(instance vk.Instance) error {
	ptr, err := d.Window.CreateWindowSurface(instance, nil)
	if err != nil {
		return err
	}
	d.Surface = vk.SurfaceFromPointer(ptr)
	return nil
}

func (d *Display) Size() (int, int) {
	return d.Window.GetSize()
}

// ResolveFormats queries physical for the surface color format and a
// supported depth format, required before the first CreateRenderPassPair
// or CreateSwapchain call against this display.
func (d *Display) ResolveFormats(physical vk.PhysicalDevice) error {
	surfaceFormat, err := SelectSurfaceFormat(physical, d.Surface)
	if err != nil {
		return err
	}
	depthFormat, err := SelectDepthFormat(physical)
	if err != nil {
		return err
	}
	d.SurfaceFormat = surfaceFormat
	d.DepthFormat = depthFormat
	return nil
}
