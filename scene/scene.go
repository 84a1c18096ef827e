package scene

import (
	lin "github.com/xlab/linmath"

	"github.com/andewx/rendergraph/graph"
)

// Transform is a renderable's world matrix, looked up by
// graph.Renderable.Transform. Kept as a flat slice rather than a map so a
// frame's transform upload is one contiguous copy.
type Transform struct {
	World lin.Mat4x4
}

// Scene is the default graph.SceneProvider: a renderable list keyed by the
// name of the pass that should draw it, plus the transform array those
// renderables index into. It does not own meshes or materials — those
// handles are opaque to the graph and are resolved by whatever the pass
// recorder binds them against (typically the asset package's mesh cache).
type Scene struct {
	renderables map[string][]graph.Renderable
	transforms  []Transform
	Camera      *Camera
}

func New(camera *Camera) *Scene {
	return &Scene{renderables: make(map[string][]graph.Renderable), Camera: camera}
}

// Add appends a renderable for mesh/material, owning transform, to the
// list drawn by the pass named pass, and returns its Renderable.Transform
// index.
func (s *Scene) Add(pass string, mesh, material uint32, world lin.Mat4x4) graph.Renderable {
	index := uint32(len(s.transforms))
	s.transforms = append(s.transforms, Transform{World: world})
	r := graph.Renderable{Mesh: mesh, Material: material, Transform: index}
	s.renderables[pass] = append(s.renderables[pass], r)
	return r
}

// Transform resolves a renderable's world matrix.
func (s *Scene) Transform(index uint32) lin.Mat4x4 {
	return s.transforms[index].World
}

// Renderables implements graph.SceneProvider.
func (s *Scene) Renderables() map[string][]graph.Renderable {
	return s.renderables
}

// Clear drops every renderable and transform, keeping the camera.
func (s *Scene) Clear() {
	for pass := range s.renderables {
		delete(s.renderables, pass)
	}
	s.transforms = s.transforms[:0]
}
