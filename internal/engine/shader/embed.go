package shader

import _ "embed"

// SimpleVertex is the built-in vertex shader.
//
//go:embed shaders/simple.vert
var SimpleVertex string

// SimpleFragment is the built-in lit fragment shader.
//
//go:embed shaders/simple.frag
var SimpleFragment string
