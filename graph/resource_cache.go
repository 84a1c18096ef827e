package graph

import vk "github.com/vulkan-go/vulkan"

// ResourceCache is a name -> LayoutHandle map plus slot-keyed pipeline
// layout storage, letting pass builders share one layout across passes.
// Re-inserting an already-present name replaces the binding and leaks
// the prior layout: callers must not reuse names across active graphs.
type ResourceCache struct {
	byName  map[string]LayoutHandle
	layouts []vk.PipelineLayout
}

func NewResourceCache() *ResourceCache {
	return &ResourceCache{byName: make(map[string]LayoutHandle)}
}

// CacheLayout installs layout under name, returning its handle.
func (c *ResourceCache) CacheLayout(name string, layout vk.PipelineLayout) LayoutHandle {
	handle := LayoutHandle(len(c.layouts))
	c.layouts = append(c.layouts, layout)
	c.byName[name] = handle
	return handle
}

// GetLayout retrieves the layout cached under name.
func (c *ResourceCache) GetLayout(name string) (vk.PipelineLayout, LayoutHandle, bool) {
	handle, ok := c.byName[name]
	if !ok {
		return vk.NullPipelineLayout, 0, false
	}
	return c.layouts[handle], handle, true
}

// Layout resolves a handle directly, for callers that already hold one.
func (c *ResourceCache) Layout(handle LayoutHandle) vk.PipelineLayout {
	return c.layouts[handle]
}
