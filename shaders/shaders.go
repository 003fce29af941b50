package shaders

import (
	_ "embed"
)

//go:embed entity.wgsl
var EntityWGSL string

//go:embed fragment.wgsl
var FragmentWGSL string

//go:embed debug_lines.wgsl
var DebugLinesWGSL string
