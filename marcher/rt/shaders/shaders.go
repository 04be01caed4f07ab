package shaders

import (
	_ "embed"
)

//go:embed raymarch.wgsl
var RaymarchWGSL string

//go:embed quad_vert.wgsl
var QuadVertexWGSL string

//go:embed quad_frag.wgsl
var QuadFragmentWGSL string
