package vertex

import (
	"github.com/Faultbox/runtimemesh/pkg/math"
)

// TangentVec is a tangent direction plus the bitangent sign in W.
type TangentVec struct {
	X, Y, Z float32
	W       float32
}

// DefaultTangent points along +X with a positive bitangent.
var DefaultTangent = TangentVec{X: 1, W: 1}

// RGBA8 is an 8-bit RGBA color.
type RGBA8 struct {
	R, G, B, A uint8
}

// White is the default vertex color.
var White = RGBA8{255, 255, 255, 255}

// Generic is a full vertex with one UV channel.
type Generic struct {
	Position math.Vec3
	Normal   math.Vec3
	Tangent  TangentVec
	Color    RGBA8
	UV0      math.Vec2
}

var genericDesc = Describe[Generic]("Generic", Position|Normal|Tangent|Color|TexCoord0)

// Descriptor implements Type.
func (Generic) Descriptor() Descriptor { return genericDesc }

// GenericDualUV is a full vertex with two UV channels.
type GenericDualUV struct {
	Position math.Vec3
	Normal   math.Vec3
	Tangent  TangentVec
	Color    RGBA8
	UV0      math.Vec2
	UV1      math.Vec2
}

var genericDualUVDesc = Describe[GenericDualUV]("GenericDualUV", Position|Normal|Tangent|Color|TexCoord0|TexCoord1)

// Descriptor implements Type.
func (GenericDualUV) Descriptor() Descriptor { return genericDualUVDesc }

// Attributes is the non-position half of a dual-buffer vertex.
type Attributes struct {
	Normal  math.Vec3
	Tangent TangentVec
	Color   RGBA8
	UV0     math.Vec2
}

var attributesDesc = Describe[Attributes]("Attributes", Normal|Tangent|Color|TexCoord0)

// Descriptor implements Type.
func (Attributes) Descriptor() Descriptor { return attributesDesc }

// AttributesDualUV is Attributes with a second UV channel.
type AttributesDualUV struct {
	Normal  math.Vec3
	Tangent TangentVec
	Color   RGBA8
	UV0     math.Vec2
	UV1     math.Vec2
}

var attributesDualUVDesc = Describe[AttributesDualUV]("AttributesDualUV", Normal|Tangent|Color|TexCoord0|TexCoord1)

// Descriptor implements Type.
func (AttributesDualUV) Descriptor() Descriptor { return attributesDualUVDesc }
