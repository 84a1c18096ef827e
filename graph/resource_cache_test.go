package graph

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func TestResourceCacheCacheAndGet(t *testing.T) {
	cache := NewResourceCache()
	layout := vk.PipelineLayout(42)

	handle := cache.CacheLayout("unlit", layout)

	got, gotHandle, ok := cache.GetLayout("unlit")
	if !ok {
		t.Fatalf("GetLayout(%q): ok\nhave false\nwant true", "unlit")
	}
	if gotHandle != handle {
		t.Fatalf("GetLayout(%q): handle\nhave %v\nwant %v", "unlit", gotHandle, handle)
	}
	if got != layout {
		t.Fatalf("GetLayout(%q): layout\nhave %v\nwant %v", "unlit", got, layout)
	}
	if cache.Layout(handle) != layout {
		t.Fatalf("Layout(%v)\nhave %v\nwant %v", handle, cache.Layout(handle), layout)
	}
}

func TestResourceCacheMissingName(t *testing.T) {
	cache := NewResourceCache()
	if _, _, ok := cache.GetLayout("missing"); ok {
		t.Fatalf("GetLayout(%q): ok\nhave true\nwant false", "missing")
	}
}

func TestResourceCacheNameReuseReplacesBinding(t *testing.T) {
	cache := NewResourceCache()
	first := vk.PipelineLayout(1)
	second := vk.PipelineLayout(2)

	cache.CacheLayout("shared", first)
	handle := cache.CacheLayout("shared", second)

	got, gotHandle, ok := cache.GetLayout("shared")
	if !ok || got != second || gotHandle != handle {
		t.Fatalf("GetLayout(%q) after reuse\nhave (%v, %v, %v)\nwant (%v, %v, true)", "shared", got, gotHandle, ok, second, handle)
	}
}
