package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/ffp/regbank"
)

// Errors returned by compiler services.
var (
	// ErrUnsupportedProgramModel is returned for sources no service accepts.
	ErrUnsupportedProgramModel = errors.New("compiler: unsupported program model")

	// ErrSyntax is wrapped by every SyntaxError.
	ErrSyntax = errors.New("compiler: syntax error")
)

// SyntaxError reports the first error found while assembling a program.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("compiler: line %d: %s", e.Line, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// Model identifies the program language of a source.
type Model uint8

const (
	ModelUnknown Model = iota
	ModelARBVertex
	ModelARBFragment
	ModelWGSL
)

func (m Model) String() string {
	switch m {
	case ModelARBVertex:
		return "ARBvp1.0"
	case ModelARBFragment:
		return "ARBfp1.0"
	case ModelWGSL:
		return "WGSL"
	}
	return "unknown"
}

// Stage returns the shader stage of an assembly model. WGSL sources may
// hold several stages and report 0.
func (m Model) Stage() gputypes.ShaderStage {
	switch m {
	case ModelARBVertex:
		return gputypes.ShaderStageVertex
	case ModelARBFragment:
		return gputypes.ShaderStageFragment
	}
	return 0
}

// DetectModel inspects the program header.
func DetectModel(source string) Model {
	s := strings.TrimLeft(source, " \t\r\n")
	switch {
	case strings.HasPrefix(s, "!!ARBvp1.0"):
		return ModelARBVertex
	case strings.HasPrefix(s, "!!ARBfp1.0"):
		return ModelARBFragment
	case strings.Contains(s, "@vertex"), strings.Contains(s, "@fragment"), strings.Contains(s, "@compute"):
		return ModelWGSL
	}
	return ModelUnknown
}

// MaxTextureUnits is the number of texture units a program may sample.
const MaxTextureUnits = 16

// Usage describes the resources a compiled program touches.
type Usage struct {
	// Texture holds the sampled view dimension per unit, or
	// TextureViewDimensionUndefined for units the program does not sample.
	Texture [MaxTextureUnits]gputypes.TextureViewDimension
	// Kill is true when the program can discard fragments.
	Kill bool
}

// Result is a compiled program.
type Result struct {
	Model Model
	Code  []byte
	// Bank lists the parameter registers the program reads. Binding merge
	// turns it into the program's final constant bindings.
	Bank  *regbank.Bank
	Usage Usage
	// Instructions and Parameters count the assembled instructions and the
	// used bank registers.
	Instructions int
	Parameters   int
	Log          string
}

// Service compiles program source text.
type Service interface {
	Compile(source string) (*Result, error)
}
