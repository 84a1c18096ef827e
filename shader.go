package rendervk

import (
	"encoding/binary"
	"fmt"
	"os"

	vk "github.com/vulkan-go/vulkan"
)

// Shader stage identifiers used to tag a ShaderProgram's modules.
const (
	StageVertex = iota
	StageFragment
	StageCompute
	StageGeometry
	StageTessellation
)

const spirvMagicNumber = 0x07230203

// ValidateSpirv checks a SPIR-V blob's length and magic number before it
// is handed to vk.CreateShaderModule, which otherwise fails with an
// unhelpful driver-side validation error on malformed input.
func ValidateSpirv(data []byte) error {
	if len(data) < 4 || len(data)%4 != 0 {
		return fmt.Errorf("spirv blob length %d is not a positive multiple of 4", len(data))
	}
	magic := binary.LittleEndian.Uint32(data[0:4])
	if magic != spirvMagicNumber {
		return fmt.Errorf("spirv blob missing magic number, got 0x%08x", magic)
	}
	return nil
}

// ShaderProgram pairs the vertex and fragment modules a Pass's pipeline
// is built from.
type ShaderProgram struct {
	Vertex   vk.ShaderModule
	Fragment vk.ShaderModule
}

func (p *ShaderProgram) Destroy(device vk.Device) {
	if p.Vertex != vk.NullShaderModule {
		vk.DestroyShaderModule(device, p.Vertex, nil)
	}
	if p.Fragment != vk.NullShaderModule {
		vk.DestroyShaderModule(device, p.Fragment, nil)
	}
}

// LoadShaderProgram reads compiled SPIR-V from vertexPath/fragmentPath and
// loads both as shader modules.
func LoadShaderProgram(device vk.Device, vertexPath, fragmentPath string) (*ShaderProgram, error) {
	vertexData, err := os.ReadFile(vertexPath)
	if err != nil {
		return nil, err
	}
	fragmentData, err := os.ReadFile(fragmentPath)
	if err != nil {
		return nil, err
	}

	vertex, err := LoadShaderModule(device, vertexData)
	if err != nil {
		return nil, fmt.Errorf("loading vertex shader %s: %w", vertexPath, err)
	}
	fragment, err := LoadShaderModule(device, fragmentData)
	if err != nil {
		vk.DestroyShaderModule(device, vertex, nil)
		return nil, fmt.Errorf("loading fragment shader %s: %w", fragmentPath, err)
	}

	return &ShaderProgram{Vertex: vertex, Fragment: fragment}, nil
}
