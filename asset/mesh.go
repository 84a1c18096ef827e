// Package asset imports glTF geometry into the vertex layout this engine's
// shaders expect: binding 0, a 24-byte stride, vec3 position at offset 0
// and vec3 color at offset 12. glTF has no "color" attribute in most
// exported assets, so COLOR_0 is used when present and white otherwise.
package asset

import (
	"fmt"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	vk "github.com/vulkan-go/vulkan"

	rendervk "github.com/andewx/rendergraph"
)

// VertexStride matches the shader convention: 3 position floats + 3 color
// floats, 4 bytes each.
const VertexStride = 24

// Mesh is an imported primitive's geometry already uploaded to device
// buffers in the engine's vertex layout, ready for a recorder to bind.
type Mesh struct {
	Vertices    *rendervk.Buffer
	Indices     *rendervk.Buffer
	IndexCount  uint32
	VertexCount uint32
}

func (m *Mesh) Destroy(device vk.Device) {
	if m.Vertices != nil {
		m.Vertices.Destroy(device)
	}
	if m.Indices != nil {
		m.Indices.Destroy(device)
	}
}

// LoadFirstMesh opens a .gltf/.glb file and uploads its first mesh
// primitive as a Mesh. Only the first primitive of the first mesh is
// imported; other meshes and primitives in the document are ignored.
func LoadFirstMesh(device vk.Device, memProps vk.PhysicalDeviceMemoryProperties, path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	if len(doc.Meshes) == 0 || len(doc.Meshes[0].Primitives) == 0 {
		return nil, fmt.Errorf("gltf %q has no mesh primitives", path)
	}
	return loadPrimitive(device, memProps, doc, doc.Meshes[0].Primitives[0])
}

func loadPrimitive(device vk.Device, memProps vk.PhysicalDeviceMemoryProperties, doc *gltf.Document, prim *gltf.Primitive) (*Mesh, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("primitive has no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	var colors [][4]float32
	if idx, ok := prim.Attributes["COLOR_0"]; ok {
		colors, _ = modeler.ReadColor(doc, doc.Accessors[idx], nil)
	}

	vertexData := make([]byte, len(positions)*VertexStride)
	for i, p := range positions {
		c := [3]float32{1, 1, 1}
		if i < len(colors) {
			c = [3]float32{colors[i][0], colors[i][1], colors[i][2]}
		}
		putFloat32(vertexData, i*VertexStride, p[0])
		putFloat32(vertexData, i*VertexStride+4, p[1])
		putFloat32(vertexData, i*VertexStride+8, p[2])
		putFloat32(vertexData, i*VertexStride+12, c[0])
		putFloat32(vertexData, i*VertexStride+16, c[1])
		putFloat32(vertexData, i*VertexStride+20, c[2])
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
	}

	vertexBuffer, err := rendervk.CreateBuffer(device, memProps, vk.DeviceSize(len(vertexData)),
		vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit),
		vk.MemoryPropertyFlagBits(vk.MemoryPropertyHostVisibleBit)|vk.MemoryPropertyFlagBits(vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return nil, err
	}
	if err := vertexBuffer.Upload(device, vertexData); err != nil {
		vertexBuffer.Destroy(device)
		return nil, err
	}

	mesh := &Mesh{Vertices: vertexBuffer, VertexCount: uint32(len(positions))}

	if len(indices) > 0 {
		indexData := make([]byte, len(indices)*4)
		for i, idx := range indices {
			putUint32(indexData, i*4, idx)
		}
		indexBuffer, err := rendervk.CreateBuffer(device, memProps, vk.DeviceSize(len(indexData)),
			vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit),
			vk.MemoryPropertyFlagBits(vk.MemoryPropertyHostVisibleBit)|vk.MemoryPropertyFlagBits(vk.MemoryPropertyHostCoherentBit))
		if err != nil {
			vertexBuffer.Destroy(device)
			return nil, err
		}
		if err := indexBuffer.Upload(device, indexData); err != nil {
			vertexBuffer.Destroy(device)
			indexBuffer.Destroy(device)
			return nil, err
		}
		mesh.Indices = indexBuffer
		mesh.IndexCount = uint32(len(indices))
	}

	return mesh, nil
}

func putFloat32(buf []byte, offset int, v float32) {
	bits := math.Float32bits(v)
	buf[offset] = byte(bits)
	buf[offset+1] = byte(bits >> 8)
	buf[offset+2] = byte(bits >> 16)
	buf[offset+3] = byte(bits >> 24)
}

func putUint32(buf []byte, offset int, v uint32) {
	buf[offset] = byte(v)
	buf[offset+1] = byte(v >> 8)
	buf[offset+2] = byte(v >> 16)
	buf[offset+3] = byte(v >> 24)
}
