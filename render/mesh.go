package render

import (
	"github.com/aukilabs/gecko/geometry"
	"github.com/gogpu/gputypes"
)

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices    []geometry.Vec3[float32]    `json:"vertices"`
	Indices     []uint16                    `json:"indices"`
	IndexFormat gputypes.IndexFormat        `json:"-"`
	Layout      gputypes.VertexBufferLayout `json:"-"`
}

// UnitCube returns the cube with corners at 0 and 1 on each axis, wound
// counter-clockwise when seen from outside.
func UnitCube() Mesh {
	return Mesh{
		Vertices: []geometry.Vec3[float32]{
			{0, 0, 0},
			{1, 0, 0},
			{0, 1, 0},
			{1, 1, 0},
			{0, 0, 1},
			{1, 0, 1},
			{0, 1, 1},
			{1, 1, 1},
		},
		Indices: []uint16{
			0, 2, 1, 1, 2, 3,
			1, 3, 7, 7, 5, 1,
			6, 7, 2, 2, 7, 3,
			6, 0, 4, 2, 0, 6,
			4, 0, 5, 5, 0, 1,
			6, 4, 5, 6, 5, 7,
		},
		IndexFormat: gputypes.IndexFormatUint16,
		Layout: gputypes.VertexBufferLayout{
			ArrayStride: 3 * bytesPerSample,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			},
		},
	}
}
