package generator

import (
	"strings"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/ffp/binding"
	"github.com/gogpu/ffp/settings"
	"github.com/gogpu/ffp/state"
)

// fragmentFlags are the decisions shared by the fragment program sections.
type fragmentFlags struct {
	s *settings.PipelineSettings

	anyStage bool
	separate bool
	fog      bool

	// alphaTest is an alpha test that can discard: enabled and not ALWAYS.
	alphaTest bool
	// compare is an alpha test that reads the color: neither ALWAYS nor NEVER.
	compare bool
	// final routes the color sum through finalColor instead of result.color.
	final bool
}

func newFragmentFlags(s *settings.PipelineSettings) *fragmentFlags {
	f := &fragmentFlags{
		s:        s,
		anyStage: s.AnyStageEnabled(),
		separate: s.SeparateSpecular,
		fog:      s.FogEnabled,
	}
	f.alphaTest = s.AlphaTest && s.AlphaFunc != settings.AlphaAlways
	f.compare = f.alphaTest && s.AlphaFunc != settings.AlphaNever
	f.final = f.fog || f.compare
	return f
}

// Fragment generates the fragment program for s.
func Fragment(s *settings.PipelineSettings) (Program, error) {
	if err := settings.Validate(s); err != nil {
		return Program{}, err
	}
	f := newFragmentFlags(s)
	c := &code{}

	c.text("!!ARBfp1.0\n")
	f.inputs(c)
	if f.anyStage {
		if err := f.texturing(c); err != nil {
			return Program{}, err
		}
	}
	f.colorSum(c)
	if f.fog {
		f.fogCode(c)
	}
	if f.alphaTest {
		f.alphaTestCode(c)
	}
	c.text("END")

	return c.program(gputypes.ShaderStageFragment), nil
}

func (f *fragmentFlags) inputs(c *code) {
	c.text("# ------------ Fragment input binding ------------\n" +
		"ATTRIB iColorPrim = fragment.color.primary;\n")
	if f.separate {
		c.text("ATTRIB iColorSec = fragment.color.secondary;\n")
	}
	c.text("ATTRIB iPos = fragment.position;\n")
	for i := range f.s.Stages {
		if f.s.Stages[i].Enabled {
			c.linef("ATTRIB iCoord%d = fragment.texcoord[%d];", i, i)
			c.linef("TEMP %s;", lookupReg(i))
		}
	}
	if f.anyStage {
		c.text("TEMP texColorSum;\n")
	}
	if f.final {
		c.text("TEMP finalColor;\n")
	}
	if f.compare {
		c.text("TEMP testReg;\n")
	}
	if f.fog {
		c.text("TEMP fogFactor;\n")
		c.linef("PARAM fogParam = program.local[%d];", LocalFog)
	}
	c.text("# ------------ End Fragment input binding ------------\n")
}

var targetNames = map[settings.TextureTarget]string{
	settings.Texture1D:   "1D",
	settings.Texture2D:   "2D",
	settings.Texture3D:   "3D",
	settings.TextureCube: "CUBE",
	settings.TextureRect: "RECT",
}

func upper(v interface{ String() string }) string { return strings.ToUpper(v.String()) }

// texturing samples every enabled unit, then applies the stages in order.
// Each stage reads the previous result and writes texColorSum.
func (f *fragmentFlags) texturing(c *code) error {
	e := newStageEmitter()
	body := e.body

	for i := range f.s.Stages {
		st := &f.s.Stages[i]
		if !st.Enabled {
			continue
		}
		body.linef("# -- Sampling Texture Unit %d with Texture Target %s --", i, targetNames[st.Target])
		body.linef("TEX %s, iCoord%d, texture[%d], %s;", lookupReg(i), i, i, targetNames[st.Target])
	}

	input := "iColorPrim"
	for i := range f.s.Stages {
		st := &f.s.Stages[i]
		if !st.Enabled {
			continue
		}
		var eq stageEquation
		body.linef("# -- Modulation texture function: %s", upper(st.Function))
		if st.Function.IsCombine() {
			eq = combineEquation(i, st, input)
			combineComments(body, st)
		} else {
			body.linef("# -- Base Internal Format: %s", upper(st.Format))
			if undefinedDecal(st.Function, st.Format) {
				body.text("# -- Warning: undefined result specified\n")
			}
			var err error
			if eq, err = fixedEquation(i, st, input); err != nil {
				return err
			}
		}
		e.emit(&eq)
		input = e.dst
	}

	c.text("# ------------ Texture application code ------------\n")
	c.text(e.declarations(func(u int) bool { return f.s.Stages[u].Enabled }))
	c.text(body.sb.String())
	c.text("# ---------- End Texture application ------------\n")
	return nil
}

func combineComments(c *code, st *settings.TextureStage) {
	cm := &st.Combine
	nv := st.Function == settings.Combine4NV
	group := func(name string, fn settings.CombineFunction, srcs [4]settings.CombineSource, ops [4]settings.CombineOperand) {
		c.linef("# -- Combine %s Function: %s", name, upper(fn))
		for j := 0; j < fn.Operands(nv); j++ {
			c.linef("# -- Combine %s Source%d : %s", name, j, upper(srcs[j]))
			c.linef("# -- Combine %s Operand%d : %s", name, j, upper(ops[j]))
		}
	}
	group("RGB", cm.RGB, cm.SrcRGB, cm.OperandRGB)
	group("ALPHA", cm.Alpha, cm.SrcAlpha, cm.OperandAlpha)
	c.linef("# -- Combine RGB Scale Factor %d", cm.RGBScale)
	c.linef("# -- Combine ALPHA Scale Factor %d", cm.AlphaScale)
}

func (f *fragmentFlags) colorSum(c *code) {
	c.text("# -------------- Color sum code --------------\n")
	wr := "result.color"
	if f.final {
		wr = "finalColor"
	}
	switch {
	case f.anyStage && f.separate:
		c.linef("ADD %s, texColorSum, iColorSec;", wr)
	case f.anyStage:
		c.linef("MOV %s, texColorSum;", wr)
	case f.separate:
		c.linef("ADD  %s, iColorPrim, iColorSec;", wr)
	default:
		c.linef("MOV  %s, iColorPrim;", wr)
	}
	c.text("# -------------- End Color sum ---------------\n")
}

func (f *fragmentFlags) fogCode(c *code) {
	c.text("# -------------- Fog application code --------------\n")
	d := binding.Descriptor{Target: binding.Local, Index: LocalFog}
	switch f.s.FogMode {
	case settings.FogLinear:
		c.text("# -------- Linear Fog factor computing ---------\n" +
			"MAD_SAT fogFactor.x, fogParam.x, fragment.fogcoord.x, fogParam.y;\n")
		d.Slots = []state.SlotID{state.FogStart, state.FogEnd}
		d.Func = binding.LinearFogParams
	case settings.FogExp:
		c.text("# ------ Exponential fog factor computing -------\n" +
			"MUL fogFactor.x, fogParam.x, fragment.fogcoord.x;\n" +
			"EX2_SAT fogFactor.x, -fogFactor.x;\n")
		d.Slots = []state.SlotID{state.FogDensity}
		d.Func = binding.ExpFogParams
	case settings.FogExp2:
		c.text("# ----- 2nd order exponential fog factor computing ------\n" +
			"MUL fogFactor.x, fogParam.x, fragment.fogcoord.x;\n" +
			"MUL fogFactor.x, fogFactor.x, fogFactor.x;\n" +
			"EX2_SAT fogFactor.x, -fogFactor.x;\n")
		d.Slots = []state.SlotID{state.FogDensity}
		d.Func = binding.Exp2FogParams
	}
	c.bind(d)

	c.text("# Final fog combination\n")
	if f.alphaTest {
		c.text("LRP finalColor.rgb, fogFactor.x, finalColor, state.fog.color;\n")
	} else {
		c.text("LRP result.color.rgb, fogFactor.x, finalColor, state.fog.color;\n" +
			"MOV result.color.a, finalColor;\n")
	}
	c.text("# ------------ End fog application code -------------\n")
}

var alphaTestNames = map[settings.AlphaFunction]string{
	settings.AlphaNever:        "NEVER",
	settings.AlphaLess:         "LESS",
	settings.AlphaLessEqual:    "LEQUAL",
	settings.AlphaEqual:        "EQUAL",
	settings.AlphaGreaterEqual: "GEQUAL",
	settings.AlphaGreater:      "GREATER",
	settings.AlphaNotEqual:     "NOTEQUAL",
}

// alphaKill discards fragments failing the comparison of the color
// alpha with the reference in program.local[42]. KIL discards when any
// component of its operand is negative.
var alphaKill = map[settings.AlphaFunction]string{
	settings.AlphaNever: "KIL {-1,-1,-1,-1};\n",
	settings.AlphaLess: "SGE testReg, finalColor.a, program.local[42];\n" +
		"KIL -testReg;\n",
	settings.AlphaLessEqual: "SUB testReg, program.local[42], finalColor.a;\n" +
		"KIL testReg;\n",
	settings.AlphaEqual: "SUB testReg, program.local[42], finalColor.a;\n" +
		"ABS testReg, testReg;\n" +
		"KIL -testReg;\n",
	settings.AlphaGreaterEqual: "SUB testReg, finalColor.a, program.local[42];\n" +
		"KIL testReg;\n",
	settings.AlphaGreater: "SGE testReg, -finalColor.a, -program.local[42];\n" +
		"KIL -testReg;\n",
	settings.AlphaNotEqual: "SGE testReg.x, finalColor.a, program.local[42];\n" +
		"SGE testReg.y, -finalColor.a, -program.local[42];\n" +
		"MUL testReg, testReg.x, testReg.y;\n" +
		"KIL -testReg;\n",
}

func (f *fragmentFlags) alphaTestCode(c *code) {
	fn := f.s.AlphaFunc
	c.text("# ------------ Alpha Test ----------------\n")
	c.linef("# Alpha Test Function: %s", alphaTestNames[fn])
	c.text(alphaKill[fn])
	if f.compare {
		c.text("MOV result.color, finalColor;\n")
	}
	c.text("# ------------ End Alpha Test ----------------\n")
	c.bind(binding.Descriptor{
		Target: binding.Local,
		Index:  LocalAlphaRef,
		Slots:  []state.SlotID{state.AlphaRef},
		Func:   binding.AlphaRef,
	})
}
