package rendervk

import lin "github.com/xlab/linmath"

// VulkanProjection converts an OpenGL-style projection matrix (produced by
// linmath, which targets GL's [-1,1] clip space) to Vulkan's clip space:
// Y flipped, and depth remapped to [0,1].
func VulkanProjection(out *lin.Mat4x4, proj *lin.Mat4x4) {
	out.Fill(1.0)
	out.ScaleAniso(out, 1.0, -1.0, 1.0)
	out.ScaleAniso(out, 1.0, 1.0, 0.5)
	out.Translate(0.0, 0.0, 1.0)
	out.Mult(out, proj)
}
