// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// OceanVertexShader passes the displaced position through the camera and
// forwards elevation and normal.
//
//go:embed ocean.vert
var OceanVertexShader string

// OceanFragmentShader colors fragments by elevation.
//
//go:embed ocean.frag
var OceanFragmentShader string
