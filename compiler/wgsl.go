package compiler

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"

	"github.com/gogpu/ffp/regbank"
)

// WGSL compiles WGSL modules to SPIR-V. WGSL programs read their
// parameters through uniforms, so the result bank is empty.
type WGSL struct {
	validate bool
	version  spirv.Version
}

// NewWGSL returns a WGSL service. With validate set, modules that fail
// IR validation are rejected.
func NewWGSL(validate bool) *WGSL {
	return &WGSL{validate: validate, version: spirv.Version1_3}
}

// Compile translates source to SPIR-V.
func (c *WGSL) Compile(source string) (*Result, error) {
	if DetectModel(source) != ModelWGSL {
		return nil, fmt.Errorf("%w: no WGSL entry point", ErrUnsupportedProgramModel)
	}
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("compiler: wgsl: %w", err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("compiler: wgsl: %w", err)
	}
	if c.validate {
		errs, err := naga.Validate(module)
		if err != nil {
			return nil, fmt.Errorf("compiler: wgsl: %w", err)
		}
		if len(errs) > 0 {
			return nil, fmt.Errorf("compiler: wgsl validation: %w", &errs[0])
		}
	}
	code, err := naga.GenerateSPIRV(module, spirv.Options{Version: c.version})
	if err != nil {
		return nil, fmt.Errorf("compiler: wgsl: %w", err)
	}

	res := &Result{
		Model: ModelWGSL,
		Code:  code,
		Bank:  regbank.New(0),
		Usage: moduleUsage(module),
	}
	for i := range module.Functions {
		res.Instructions += countStatements(module.Functions[i].Body)
	}
	stages := make([]string, 0, len(module.EntryPoints))
	for _, ep := range module.EntryPoints {
		stages = append(stages, stageNames[ep.Stage]+" "+ep.Name)
	}
	res.Log = fmt.Sprintf("%s: %s, %d statements, %d bytes of SPIR-V",
		ModelWGSL, strings.Join(stages, ", "), res.Instructions, len(code))
	return res, nil
}

var stageNames = map[ir.ShaderStage]string{
	ir.StageVertex:   "vertex",
	ir.StageFragment: "fragment",
	ir.StageCompute:  "compute",
}

// moduleUsage reports sampled textures by binding number and whether any
// function discards.
func moduleUsage(m *ir.Module) Usage {
	var u Usage
	for _, g := range m.GlobalVariables {
		if g.Binding == nil || int(g.Type) >= len(m.Types) || g.Binding.Binding >= MaxTextureUnits {
			continue
		}
		img, ok := m.Types[g.Type].Inner.(ir.ImageType)
		if !ok || img.Class == ir.ImageClassStorage {
			continue
		}
		u.Texture[g.Binding.Binding] = imageDimension(img)
	}
	for i := range m.Functions {
		if containsKill(m.Functions[i].Body) {
			u.Kill = true
		}
	}
	return u
}

func imageDimension(img ir.ImageType) gputypes.TextureViewDimension {
	switch img.Dim {
	case ir.Dim1D:
		return gputypes.TextureViewDimension1D
	case ir.Dim3D:
		return gputypes.TextureViewDimension3D
	case ir.DimCube:
		if img.Arrayed {
			return gputypes.TextureViewDimensionCubeArray
		}
		return gputypes.TextureViewDimensionCube
	}
	if img.Arrayed {
		return gputypes.TextureViewDimension2DArray
	}
	return gputypes.TextureViewDimension2D
}

// walk visits every statement of a block, nested blocks included.
func walk(b ir.Block, visit func(ir.Statement)) {
	for _, s := range b {
		visit(s)
		switch k := s.Kind.(type) {
		case ir.StmtBlock:
			walk(k.Block, visit)
		case ir.StmtIf:
			walk(k.Accept, visit)
			walk(k.Reject, visit)
		case ir.StmtLoop:
			walk(k.Body, visit)
			walk(k.Continuing, visit)
		case ir.StmtSwitch:
			for _, c := range k.Cases {
				walk(c.Body, visit)
			}
		}
	}
}

func containsKill(b ir.Block) bool {
	found := false
	walk(b, func(s ir.Statement) {
		if _, ok := s.Kind.(ir.StmtKill); ok {
			found = true
		}
	})
	return found
}

func countStatements(b ir.Block) int {
	n := 0
	walk(b, func(s ir.Statement) {
		if _, ok := s.Kind.(ir.StmtEmit); !ok {
			n++
		}
	})
	return n
}
