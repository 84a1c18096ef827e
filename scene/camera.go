// Package scene provides the minimal renderable/camera contract the graph
// package's passes draw against: a renderable list keyed by pass name and
// a camera producing a combined view-projection matrix in Vulkan clip
// space.
package scene

import (
	lin "github.com/xlab/linmath"

	rendervk "github.com/andewx/rendergraph"
)

// Camera tracks an eye/target/up triple and a perspective frustum, and
// derives the view-projection matrix every frame's push constants need.
type Camera struct {
	Eye    lin.Vec3
	Target lin.Vec3
	Up     lin.Vec3

	FovRadians float32
	Near       float32
	Far        float32
}

// NewCamera builds a camera looking from eye toward target, with a
// vertical field of view in degrees.
func NewCamera(eye, target, up lin.Vec3, fovDegrees, near, far float32) *Camera {
	return &Camera{
		Eye: eye, Target: target, Up: up,
		FovRadians: lin.DegreesToRadians(fovDegrees),
		Near:       near,
		Far:        far,
	}
}

// ViewProjection computes projection * view for the given aspect ratio,
// with the projection already converted to Vulkan's clip space.
func (c *Camera) ViewProjection(aspect float32) lin.Mat4x4 {
	var view, proj, vulkanProj, vp lin.Mat4x4
	view.LookAt(&c.Eye, &c.Target, &c.Up)
	proj.Perspective(c.FovRadians, aspect, c.Near, c.Far)
	rendervk.VulkanProjection(&vulkanProj, &proj)
	vp.Mult(&vulkanProj, &view)
	return vp
}
