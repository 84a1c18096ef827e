// Command demo wires the render context, a single swapchain-targeting
// pass and a minimal scene into a runnable window loop. See graph's own
// tests for the transient/descriptor-resolver compile paths this demo
// keeps deliberately simple.
package main

import (
	"log"
	"os"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
	lin "github.com/xlab/linmath"

	rendervk "github.com/andewx/rendergraph"
	"github.com/andewx/rendergraph/asset"
	"github.com/andewx/rendergraph/graph"
	"github.com/andewx/rendergraph/scene"
)

const (
	windowWidth  = 1280
	windowHeight = 720
	framesInFlight = 3
)

func main() {
	if err := glfw.Init(); err != nil {
		log.Fatalf("glfw init: %v", err)
	}
	defer glfw.Terminate()

	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	if err := vk.Init(); err != nil {
		log.Fatalf("vulkan init: %v", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(windowWidth, windowHeight, "rendergraph demo", nil, nil)
	if err != nil {
		log.Fatalf("create window: %v", err)
	}
	defer window.Destroy()

	logs, err := rendervk.NewLoggers(".")
	if err != nil {
		log.Fatalf("create loggers: %v", err)
	}
	defer logs.Close()

	usage := rendervk.NewEngineUsage()
	debug := os.Getenv("RENDERGRAPH_DEBUG") != ""

	ctx, err := rendervk.NewRenderContext("rendergraph-demo", window, usage, logs, debug)
	if err != nil {
		log.Fatalf("create render context: %v", err)
	}
	defer ctx.Destroy()

	frames, err := graph.NewSwapchainFrames(ctx, framesInFlight)
	if err != nil {
		log.Fatalf("create swapchain frames: %v", err)
	}
	defer frames.Destroy()

	mesh, err := asset.LoadFirstMesh(ctx.Device.Handle, ctx.Device.MemoryProps, "assets/triangle.gltf")
	if err != nil {
		log.Fatalf("load mesh: %v", err)
	}
	defer mesh.Destroy(ctx.Device.Handle)

	shaders, err := rendervk.LoadShaderProgram(ctx.Device.Handle, "assets/shaders/unlit.vert.spv", "assets/shaders/unlit.frag.spv")
	if err != nil {
		log.Fatalf("load shaders: %v", err)
	}
	defer shaders.Destroy(ctx.Device.Handle)

	layout, err := rendervk.CreatePipelineLayout(ctx.Device.Handle, nil, usage.Int_props["PushConstantBudgetBytes"])
	if err != nil {
		log.Fatalf("create pipeline layout: %v", err)
	}
	defer vk.DestroyPipelineLayout(ctx.Device.Handle, layout, nil)

	pipeline, err := rendervk.BuildGraphicsPipeline(ctx.Device.Handle, rendervk.PipelineOptions{
		RenderPass: ctx.RenderPasses.Swapchain,
		Layout:     layout,
		Shaders:    shaders,
		VertexBindings: []vk.VertexInputBindingDescription{
			{Binding: 0, Stride: asset.VertexStride, InputRate: vk.VertexInputRateVertex},
		},
		VertexAttributes: []vk.VertexInputAttributeDescription{
			{Location: 0, Binding: 0, Format: vk.FormatR32g32b32Sfloat, Offset: 0},
			{Location: 1, Binding: 0, Format: vk.FormatR32g32b32Sfloat, Offset: 12},
		},
		DepthTest:  true,
		DepthWrite: true,
	})
	if err != nil {
		log.Fatalf("build pipeline: %v", err)
	}
	defer vk.DestroyPipeline(ctx.Device.Handle, pipeline, nil)

	pushConstantBudget := uint32(usage.Int_props["PushConstantBudgetBytes"])

	builder := graph.NewGraphBuilder(ctx)
	mainPass, err := graph.NewPass("main").
		Target(graph.Swapchain()).
		Graphics(pipeline, layout).
		PushConstants(vk.ShaderStageFlags(vk.ShaderStageVertexBit|vk.ShaderStageFragmentBit), 0, pushConstantBudget).
		OnRecord(func(pc *graph.PassContext, renderables []graph.Renderable) {
			vertexBuffers := []vk.Buffer{mesh.Vertices.Handle}
			offsets := []vk.DeviceSize{0}
			vk.CmdBindVertexBuffers(pc.Cmd(), 0, 1, vertexBuffers, offsets)
			if mesh.Indices != nil {
				vk.CmdBindIndexBuffer(pc.Cmd(), mesh.Indices.Handle, 0, vk.IndexTypeUint32)
				pc.DrawIndexed(mesh.IndexCount)
			} else {
				pc.Draw(mesh.VertexCount)
			}
		}).
		Build()
	if err != nil {
		log.Fatalf("build pass: %v", err)
	}
	builder.AddPass(mainPass)

	compiled, err := builder.Compile(frames)
	if err != nil {
		log.Fatalf("compile graph: %v", err)
	}
	defer compiled.Destroy()

	cam := scene.NewCamera(
		lin.Vec3{0, 1.5, 4}, lin.Vec3{0, 0, 0}, lin.Vec3{0, 1, 0},
		60, 0.1, 100,
	)
	world := scene.New(cam)
	var worldMatrix lin.Mat4x4
	worldMatrix.Identity()
	world.Add("main", 0, 0, worldMatrix)

	for !window.ShouldClose() {
		glfw.PollEvents()

		status, err := compiled.Execute(world)
		switch status {
		case graph.Presented:
			// nothing to do
		case graph.NeedsRecreate:
			if err := compiled.Resize(); err != nil {
				logs.Error.Printf("resize failed: %v", err)
				return
			}
		case graph.DeviceLost:
			logs.Error.Printf("device lost: %v", err)
			return
		case graph.Timeout:
			logs.Warn.Printf("frame timeout: %v", err)
		}
	}

	vk.DeviceWaitIdle(ctx.Device.Handle)
}
