package renderer

import "github.com/spaghettifunk/eae6320/engine/math"

// Two triangles covering the upper right quadrant of clip space, with
// counter-clockwise winding.
var MeshVertices = [6]math.Vec2{
	math.NewVec2(0, 0),
	math.NewVec2(1, 0),
	math.NewVec2(1, 1),
	math.NewVec2(0, 0),
	math.NewVec2(1, 1),
	math.NewVec2(0, 1),
}

const (
	MeshVertexCount  = len(MeshVertices)
	MeshVertexStride = 8
)

// MeshVertexData flattens the mesh into x, y pairs.
func MeshVertexData() []float32 {
	data := make([]float32, 0, MeshVertexCount*2)
	for _, v := range MeshVertices {
		data = append(data, v.X, v.Y)
	}
	return data
}
