package ffp

import (
	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/ffp/binding"
	"github.com/gogpu/ffp/compiler"
)

// MaxTextureUnits is the number of texture units a variant reports usage for.
const MaxTextureUnits = compiler.MaxTextureUnits

// ShaderVariant is a compiled program together with the bindings that
// produce its constants.
//
// Variants returned by a Session belong to its variant cache. They are
// never modified after creation and must not be modified by callers.
type ShaderVariant struct {
	Stage  gputypes.ShaderStage
	Source string
	Code   []byte

	// TextureUsage holds the sampled view dimension per texture unit, or
	// TextureViewDimensionUndefined for units the program does not sample.
	TextureUsage [MaxTextureUnits]gputypes.TextureViewDimension
	Kill         bool

	// Bindings hold one Final descriptor per constant register.
	Bindings []binding.Descriptor

	Instructions int
	Parameters   int
}

func newVariant(stage gputypes.ShaderStage, source string, res *compiler.Result, bindings []binding.Descriptor) *ShaderVariant {
	return &ShaderVariant{
		Stage:        stage,
		Source:       source,
		Code:         res.Code,
		TextureUsage: res.Usage.Texture,
		Kill:         res.Usage.Kill,
		Bindings:     bindings,
		Instructions: res.Instructions,
		Parameters:   res.Parameters,
	}
}

// apply hands the variant to sink and resolves its constants from src.
func (v *ShaderVariant) apply(src binding.Source, sink ProgramSink) error {
	sink.SetCode(v.Code)
	for unit, dim := range v.TextureUsage {
		sink.SetTextureUnitUsage(unit, dim)
	}
	sink.SetKillInstructions(v.Kill)
	return binding.Resolve(v.Bindings, src, sink)
}

// ProgramSink receives a program ready for the device: its code, its
// resolved constants and the resources it uses.
type ProgramSink interface {
	// SetCode receives the compiled code. The slice is shared with the
	// variant and must not be modified.
	SetCode(code []byte)
	SetConstant(index int, v f32.Vec4)
	SetTextureUnitUsage(unit int, dim gputypes.TextureViewDimension)
	SetKillInstructions(kill bool)
}

// Program is a ProgramSink that records what it receives.
type Program struct {
	Code         []byte
	Constants    []f32.Vec4
	TextureUsage [MaxTextureUnits]gputypes.TextureViewDimension
	Kill         bool
}

// SetCode copies code into p.
func (p *Program) SetCode(code []byte) {
	p.Code = append(p.Code[:0], code...)
}

// SetConstant stores v at index, growing Constants as needed.
func (p *Program) SetConstant(index int, v f32.Vec4) {
	if index < 0 {
		return
	}
	for len(p.Constants) <= index {
		p.Constants = append(p.Constants, f32.Vec4{})
	}
	p.Constants[index] = v
}

// SetTextureUnitUsage records the view dimension sampled on unit.
func (p *Program) SetTextureUnitUsage(unit int, dim gputypes.TextureViewDimension) {
	if unit >= 0 && unit < len(p.TextureUsage) {
		p.TextureUsage[unit] = dim
	}
}

// SetKillInstructions records whether the program can discard fragments.
func (p *Program) SetKillInstructions(kill bool) { p.Kill = kill }

// Constant returns the constant at index, or zero if none was set.
func (p *Program) Constant(index int) f32.Vec4 {
	if index < 0 || index >= len(p.Constants) {
		return f32.Vec4{}
	}
	return p.Constants[index]
}
