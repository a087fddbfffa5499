package compiler

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/ffp/binding"
	"github.com/gogpu/ffp/device"
	"github.com/gogpu/ffp/generator"
	"github.com/gogpu/ffp/regbank"
	"github.com/gogpu/ffp/settings"
)

func mustCompile(t *testing.T, s Service, src string) *Result {
	t.Helper()
	res, err := s.Compile(src)
	if err != nil {
		t.Fatalf("Compile() error = %v\n%s", err, src)
	}
	return res
}

// variants returns settings that together reach every section of the
// generated programs.
func variants() map[string]settings.PipelineSettings {
	out := make(map[string]settings.PipelineSettings)
	add := func(name string, edit func(s *settings.PipelineSettings)) {
		s := settings.Defaults()
		edit(&s)
		out[name] = s
	}

	add("defaults", func(s *settings.PipelineSettings) {})
	add("directional light", func(s *settings.PipelineSettings) {
		s.Lighting = true
		s.Lights[0].Enabled = true
	})
	add("all light types local viewer", func(s *settings.PipelineSettings) {
		s.Lighting = true
		s.LocalViewer = true
		s.Normalize = settings.Normalize
		s.Lights[0] = settings.Light{Enabled: true, Type: settings.Directional}
		s.Lights[1] = settings.Light{Enabled: true, Type: settings.Point}
		s.Lights[2] = settings.Light{Enabled: true, Type: settings.Spot}
	})
	add("two sided separate specular", func(s *settings.PipelineSettings) {
		s.Lighting = true
		s.TwoSidedLighting = true
		s.SeparateSpecular = true
		s.CullEnabled = false
		s.Normalize = settings.Rescale
		s.ColorMaterialFace = settings.FaceFrontAndBack
		s.ColorMaterial = settings.CMEmission
		for i := range s.Lights {
			s.Lights[i] = settings.Light{Enabled: true, Type: settings.LightType(i % 3)}
		}
	})
	add("both faces culled", func(s *settings.PipelineSettings) {
		s.Lighting = true
		s.Lights[0].Enabled = true
		s.CullFace = settings.FaceFrontAndBack
	})
	add("unlit two sided", func(s *settings.PipelineSettings) {
		s.TwoSidedLighting = true
		s.SeparateSpecular = true
	})
	add("linear fog depth", func(s *settings.PipelineSettings) {
		s.FogEnabled = true
		s.FogMode = settings.FogLinear
	})
	add("exp2 fog coordinate alpha greater", func(s *settings.PipelineSettings) {
		s.FogEnabled = true
		s.FogMode = settings.FogExp2
		s.FogCoord = settings.FogCoordinate
		s.AlphaTest = true
		s.AlphaFunc = settings.AlphaGreater
	})
	for _, fn := range []settings.AlphaFunction{
		settings.AlphaNever, settings.AlphaLess, settings.AlphaLessEqual,
		settings.AlphaEqual, settings.AlphaGreaterEqual, settings.AlphaNotEqual,
	} {
		add("alpha "+fn.String(), func(s *settings.PipelineSettings) {
			s.AlphaTest = true
			s.AlphaFunc = fn
		})
	}
	for _, fn := range []settings.TextureFunction{settings.Replace, settings.Modulate, settings.Decal, settings.Blend, settings.Add} {
		add("texture "+fn.String(), func(s *settings.PipelineSettings) {
			formats := []settings.BaseFormat{
				settings.FormatAlpha, settings.FormatLuminance, settings.FormatLuminanceAlpha,
				settings.FormatIntensity, settings.FormatRGB, settings.FormatRGBA,
			}
			for i, f := range formats {
				s.Stages[i].Enabled = true
				s.Stages[i].Function = fn
				s.Stages[i].Format = f
			}
			s.SeparateSpecular = true
		})
	}
	for _, fn := range []settings.CombineFunction{
		settings.CombineReplace, settings.CombineModulate, settings.CombineAdd,
		settings.CombineAddSigned, settings.CombineInterpolate, settings.CombineSubtract,
		settings.CombineDot3RGB, settings.CombineDot3RGBA, settings.CombineModulateAdd,
		settings.CombineModulateSignedAdd, settings.CombineModulateSubtract,
	} {
		add("combine "+fn.String(), func(s *settings.PipelineSettings) {
			st := &s.Stages[0]
			st.Enabled = true
			st.Function = settings.Combine
			st.Combine.RGB = fn
			st.Combine.Alpha = settings.CombineModulate
			st.Combine.SrcRGB = [4]settings.CombineSource{settings.SourceTextureN, settings.SourcePrimaryColor, settings.SourceOne, settings.SourceZero}
			st.Combine.OperandRGB = [4]settings.CombineOperand{settings.OperandOneMinusSrcColor, settings.OperandSrcAlpha, settings.OperandOneMinusSrcAlpha, settings.OperandSrcColor}
			st.Combine.CrossbarRGB[0] = 3
			st.Combine.RGBScale = 2
		})
	}
	add("combine4 nv", func(s *settings.PipelineSettings) {
		for i, fn := range []settings.CombineFunction{settings.CombineAdd, settings.CombineAddSigned} {
			st := &s.Stages[i]
			st.Enabled = true
			st.Function = settings.Combine4NV
			st.Target = settings.Texture1D
			st.Combine.RGB = fn
			st.Combine.Alpha = fn
			st.Combine.AlphaScale = 4
		}
	})
	add("texgen", func(s *settings.PipelineSettings) {
		modes := []settings.TexGenMode{
			settings.ObjectLinear, settings.EyeLinear, settings.SphereMap,
			settings.ReflectionMap, settings.NormalMap,
		}
		for i, m := range modes {
			s.Stages[i].Enabled = true
			s.TexCoords[i] = settings.TexCoordGen{S: m, T: m, R: settings.VertexAttrib, Q: settings.ObjectLinear}
		}
		s.Stages[5].Enabled = true
		s.Stages[5].Target = settings.TextureCube
		s.TexCoords[5].IdentityMatrix = false
	})
	add("everything", func(s *settings.PipelineSettings) {
		s.Lighting = true
		s.LocalViewer = true
		s.TwoSidedLighting = true
		s.SeparateSpecular = true
		s.CullEnabled = false
		for i := range s.Lights {
			s.Lights[i] = settings.Light{Enabled: true, Type: settings.Spot}
		}
		s.FogEnabled = true
		s.FogMode = settings.FogLinear
		s.AlphaTest = true
		s.AlphaFunc = settings.AlphaNotEqual
		for i := range s.Stages {
			s.Stages[i].Enabled = true
			s.TexCoords[i] = settings.TexCoordGen{S: settings.EyeLinear, T: settings.ObjectLinear, R: settings.SphereMap, Q: settings.NormalMap}
		}
	})
	return out
}

func TestAssembleGeneratedPrograms(t *testing.T) {
	arb := NewARB(regbank.DefaultSize)
	for name, s := range variants() {
		t.Run(name, func(t *testing.T) {
			vp, err := generator.Vertex(&s)
			if err != nil {
				t.Fatalf("Vertex() error = %v", err)
			}
			fp, err := generator.Fragment(&s)
			if err != nil {
				t.Fatalf("Fragment() error = %v", err)
			}

			vr := mustCompile(t, arb, vp.Source)
			if vr.Model != ModelARBVertex {
				t.Errorf("vertex Model = %v, want %v", vr.Model, ModelARBVertex)
			}
			fr := mustCompile(t, arb, fp.Source)
			if fr.Model != ModelARBFragment {
				t.Errorf("fragment Model = %v, want %v", fr.Model, ModelARBFragment)
			}
			for _, r := range []*Result{vr, fr} {
				if r.Instructions == 0 {
					t.Errorf("%v: Instructions = 0", r.Model)
				}
				if r.Parameters != r.Bank.Used() {
					t.Errorf("%v: Parameters = %d, want %d", r.Model, r.Parameters, r.Bank.Used())
				}
			}
		})
	}
}

func TestFogBindingMerge(t *testing.T) {
	s := settings.Defaults()
	s.FogEnabled = true
	s.FogMode = settings.FogLinear
	fp, err := generator.Fragment(&s)
	if err != nil {
		t.Fatal(err)
	}
	res := mustCompile(t, NewARB(0), fp.Source)

	pos := -1
	for i := 0; i < res.Bank.Len(); i++ {
		if role, idx, _ := res.Bank.RoleOf(i); role == regbank.LocalParam && idx == generator.LocalFog {
			pos = i
		}
	}
	if pos < 0 {
		t.Fatalf("bank has no slot for program.local[%d]:\n%s", generator.LocalFog, res.Bank)
	}

	merged := binding.Merge(res.Bank, fp.Bindings)
	found := false
	for _, d := range merged {
		if d.Index == pos {
			found = true
			if d.Func != binding.LinearFogParams {
				t.Errorf("slot %d Func = %s, want %s", pos, d.Func.Name(), binding.LinearFogParams.Name())
			}
		}
	}
	if !found {
		t.Errorf("merged bindings have no entry for slot %d", pos)
	}
}

func TestKillUsage(t *testing.T) {
	tests := []struct {
		name string
		fn   settings.AlphaFunction
		test bool
		want bool
	}{
		{"disabled", settings.AlphaGreater, false, false},
		{"always", settings.AlphaAlways, true, false},
		{"never", settings.AlphaNever, true, true},
		{"greater", settings.AlphaGreater, true, true},
	}
	arb := NewARB(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := settings.Defaults()
			s.AlphaTest = tt.test
			s.AlphaFunc = tt.fn
			fp, err := generator.Fragment(&s)
			if err != nil {
				t.Fatal(err)
			}
			res := mustCompile(t, arb, fp.Source)
			if res.Usage.Kill != tt.want {
				t.Errorf("Usage.Kill = %v, want %v", res.Usage.Kill, tt.want)
			}
		})
	}
}

func TestTextureUsage(t *testing.T) {
	s := settings.Defaults()
	s.Stages[0].Enabled = true
	s.Stages[2].Enabled = true
	s.Stages[2].Target = settings.TextureCube
	s.Stages[3].Enabled = true
	s.Stages[3].Target = settings.Texture3D
	fp, err := generator.Fragment(&s)
	if err != nil {
		t.Fatal(err)
	}
	res := mustCompile(t, NewARB(0), fp.Source)

	want := map[int]gputypes.TextureViewDimension{
		0: gputypes.TextureViewDimension2D,
		1: gputypes.TextureViewDimensionUndefined,
		2: gputypes.TextureViewDimensionCube,
		3: gputypes.TextureViewDimension3D,
		4: gputypes.TextureViewDimensionUndefined,
	}
	for unit, dim := range want {
		if got := res.Usage.Texture[unit]; got != dim {
			t.Errorf("Usage.Texture[%d] = %v, want %v", unit, got, dim)
		}
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		msg  string
	}{
		{"missing end", "!!ARBvp1.0\nMOV result.position, vertex.position;\n", 3, "missing END"},
		{"redeclared", "!!ARBvp1.0\nTEMP a;\nTEMP a;\nEND", 3, "redeclared"},
		{"write param", "!!ARBvp1.0\nPARAM c = {1,2,3,4};\nMOV c, vertex.position;\nEND", 3, "cannot write to PARAM"},
		{"write attrib", "!!ARBvp1.0\nATTRIB p = vertex.position;\nMOV p, p;\nEND", 3, "cannot write to ATTRIB"},
		{"undeclared", "!!ARBvp1.0\nMOV result.position, foo;\nEND", 2, "undeclared"},
		{"fragment only", "!!ARBvp1.0\nKIL vertex.position;\nEND", 2, "not available"},
		{"saturate in vertex", "!!ARBvp1.0\nMOV_SAT result.position, vertex.position;\nEND", 2, "saturation"},
		{"unknown opcode", "!!ARBfp1.0\nFOO result.color, fragment.color;\nEND", 2, "unknown instruction"},
		{"texture conflict", "!!ARBfp1.0\nTEMP t;\nTEX t, fragment.texcoord[0], texture[0], 2D;\nTEX t, fragment.texcoord[0], texture[0], 3D;\nEND", 4, "sampled as both"},
		{"relative addressing", "!!ARBvp1.0\nPARAM c[2] = { {1}, {2} };\nADDRESS a0;\nARL a0.x, vertex.position.x;\nMOV result.position, c[a0.x];\nEND", 5, "relative addressing"},
		{"bad character", "!!ARBfp1.0\n\nMOV result.color, fragment.color @;\nEND", 3, "unexpected character"},
		{"array size", "!!ARBvp1.0\nPARAM m[3] = { state.matrix.mvp };\nEND", 2, "initialized with 4"},
		{"matrix operand", "!!ARBvp1.0\nMOV result.position, state.matrix.mvp;\nEND", 2, "select a row"},
		{"bad mask", "!!ARBvp1.0\nMOV result.position.yx, vertex.position;\nEND", 2, "write mask"},
		{"reserved name", "!!ARBvp1.0\nTEMP state;\nEND", 2, "reserved"},
		{"missing semicolon", "!!ARBvp1.0\nTEMP a\nMOV a, vertex.position;\nEND", 3, "expected ';'"},
		{"unknown option", "!!ARBvp1.0\nOPTION ARB_fog_linear;\nEND", 2, "unknown option"},
	}
	arb := NewARB(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := arb.Compile(tt.src)
			if !errors.Is(err, ErrSyntax) {
				t.Fatalf("Compile() error = %v, want ErrSyntax", err)
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("Compile() error = %T, want *SyntaxError", err)
			}
			if se.Line != tt.line {
				t.Errorf("Line = %d, want %d (%s)", se.Line, tt.line, se.Msg)
			}
			if !strings.Contains(se.Msg, tt.msg) {
				t.Errorf("Msg = %q, want it to contain %q", se.Msg, tt.msg)
			}
		})
	}
}

func TestUnsupportedModel(t *testing.T) {
	services := map[string]Service{
		"arb":         NewARB(0),
		"multiplexer": Default(0),
		"wgsl":        NewWGSL(false),
	}
	for name, s := range services {
		_, err := s.Compile("void main() { gl_FragColor = vec4(1.0); }")
		if !errors.Is(err, ErrUnsupportedProgramModel) {
			t.Errorf("%s: Compile() error = %v, want ErrUnsupportedProgramModel", name, err)
		}
	}
}

func TestDetectModel(t *testing.T) {
	tests := []struct {
		src  string
		want Model
	}{
		{"!!ARBvp1.0\nEND", ModelARBVertex},
		{"\n  !!ARBfp1.0\nEND", ModelARBFragment},
		{"@fragment fn main() {}", ModelWGSL},
		{"!!ARBvp2.0\nEND", ModelUnknown},
		{"", ModelUnknown},
	}
	for _, tt := range tests {
		if got := DetectModel(tt.src); got != tt.want {
			t.Errorf("DetectModel(%q) = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestLiteralsAndReuse(t *testing.T) {
	src := `!!ARBvp1.0
PARAM a = {2};
PARAM b = 3;
PARAM c = {2, 0, 0, 1}; # same value as a
MOV result.position, a;
MOV result.color, b;
MOV result.fogcoord.x, state.fog.color.w;
ADD result.pointsize, state.fog.color, -{ 0.5 , 1 , 1.5 , 2 };
END
trailing text is ignored @@@`
	res := mustCompile(t, NewARB(0), src)

	want := []struct {
		role  regbank.Role
		value f32.Vec4
	}{
		{regbank.Constant, f32.Vec4{2, 0, 0, 1}},
		{regbank.Constant, f32.Vec4{3, 3, 3, 3}},
		{regbank.DeviceState, f32.Vec4{}},
		{regbank.Constant, f32.Vec4{0.5, 1, 1.5, 2}},
	}
	if res.Bank.Used() != len(want) {
		t.Fatalf("Bank.Used() = %d, want %d\n%s", res.Bank.Used(), len(want), res.Bank)
	}
	for i, w := range want {
		s := res.Bank.Slot(i)
		if s.Role != w.role || s.Value != w.value {
			t.Errorf("slot %d = %v %v, want %v %v", i, s.Role, s.Value, w.role, w.value)
		}
	}
	if idx := res.Bank.Slot(2).Index0; idx != int(binding.VectorKey(device.FogColor)) {
		t.Errorf("fog color slot Index0 = %d, want %d", idx, binding.VectorKey(device.FogColor))
	}
	if res.Instructions != 4 {
		t.Errorf("Instructions = %d, want 4", res.Instructions)
	}
}

func TestMatrixRows(t *testing.T) {
	src := `!!ARBvp1.0
PARAM inv[4] = { state.matrix.modelview.invtrans };
PARAM rows[] = { state.matrix.texture[2].row[1..2], program.local[3..4] };
DP4 result.position.x, inv[0], vertex.position;
DP4 result.position.y, rows[3], vertex.position;
END`
	res := mustCompile(t, NewARB(0), src)

	invKey := int(binding.MatrixKey(device.Modelview, device.InverseTranspose, 0))
	texKey := int(binding.MatrixKey(device.TextureMatrix, device.Plain, 2))
	want := []regbank.Slot{
		{Role: regbank.DeviceState, Index0: invKey, Index1: 0, Used: true},
		{Role: regbank.DeviceState, Index0: invKey, Index1: 1, Used: true},
		{Role: regbank.DeviceState, Index0: invKey, Index1: 2, Used: true},
		{Role: regbank.DeviceState, Index0: invKey, Index1: 3, Used: true},
		{Role: regbank.DeviceState, Index0: texKey, Index1: 1, Used: true},
		{Role: regbank.DeviceState, Index0: texKey, Index1: 2, Used: true},
		{Role: regbank.LocalParam, Index0: 3, Used: true},
		{Role: regbank.LocalParam, Index0: 4, Used: true},
	}
	for i, w := range want {
		if got := res.Bank.Slot(i); got != w {
			t.Errorf("slot %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestBankExhausted(t *testing.T) {
	src := "!!ARBfp1.0\nMOV result.color, {1};\nADD result.color, {2}, {3};\nEND"
	_, err := NewARB(2).Compile(src)
	if !errors.Is(err, regbank.ErrBankExhausted) {
		t.Errorf("Compile() error = %v, want ErrBankExhausted", err)
	}
}

func TestDecode(t *testing.T) {
	s := settings.Defaults()
	vp, err := generator.Vertex(&s)
	if err != nil {
		t.Fatal(err)
	}
	res := mustCompile(t, NewARB(0), vp.Source)

	h, ops, err := Decode(res.Code)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if h.Model != ModelARBVertex || h.Instructions != res.Instructions || h.Attributes != 2 {
		t.Errorf("Decode() header = %+v", h)
	}
	want := []string{"DP4", "DP4", "DP4", "DP4", "MOV"}
	if strings.Join(ops, " ") != strings.Join(want, " ") {
		t.Errorf("Decode() ops = %v, want %v", ops, want)
	}
	wantLog := "ARBvp1.0: 5 instructions, 0 temporaries, 4 parameters, 2 attributes"
	if res.Log != wantLog {
		t.Errorf("Log = %q, want %q", res.Log, wantLog)
	}

	if _, _, err := Decode([]byte("nope")); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("Decode(garbage) error = %v, want ErrInvalidCode", err)
	}
	bad := append([]byte(nil), res.Code...)
	bad[4] = 9
	if _, _, err := Decode(bad); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("Decode(version 9) error = %v, want ErrInvalidCode", err)
	}
}

func TestDecodeTexture(t *testing.T) {
	src := "!!ARBfp1.0\nTEMP t;\nTXP_SAT t, fragment.texcoord[1], texture[1], CUBE;\nMOV result.color, t;\nEND"
	res := mustCompile(t, NewARB(0), src)
	_, ops, err := Decode(res.Code)
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 2 || ops[0] != "TXP_SAT Cube" || ops[1] != "MOV" {
		t.Errorf("Decode() ops = %q", ops)
	}
}

type countingService struct {
	calls int
	next  Service
}

func (c *countingService) Compile(src string) (*Result, error) {
	c.calls++
	return c.next.Compile(src)
}

func TestMemo(t *testing.T) {
	inner := &countingService{next: NewARB(0)}
	m := NewMemo(inner, 2)
	a := "!!ARBfp1.0\nMOV result.color, fragment.color;\nEND"
	b := "!!ARBfp1.0\nMOV result.color, {1};\nEND"
	c := "!!ARBfp1.0\nMOV result.color, {2};\nEND"

	first := mustCompile(t, m, a)
	second := mustCompile(t, m, a)
	if inner.calls != 1 {
		t.Errorf("calls after repeat = %d, want 1", inner.calls)
	}
	if first == second || first.Bank == second.Bank {
		t.Error("memo returned a shared result")
	}

	mustCompile(t, m, b)
	mustCompile(t, m, c) // evicts a
	mustCompile(t, m, a)
	if inner.calls != 4 {
		t.Errorf("calls after eviction = %d, want 4", inner.calls)
	}

	if _, err := m.Compile("!!ARBfp1.0\nEND END"); err != nil {
		t.Errorf("Compile(empty program) error = %v", err)
	}
	if _, err := m.Compile("!!ARBfp1.0\nBAD;\nEND"); err == nil {
		t.Error("Compile(bad) error = nil")
	}
	if _, err := m.Compile("!!ARBfp1.0\nBAD;\nEND"); err == nil {
		t.Error("Compile(bad) second error = nil")
	}
	if inner.calls != 7 {
		t.Errorf("calls = %d, want 7 (failures are not remembered)", inner.calls)
	}

	hits, misses := m.Counters()
	if hits != 1 || misses != 7 {
		t.Errorf("Counters() = %d, %d, want 1, 7", hits, misses)
	}
}

func TestWGSL(t *testing.T) {
	src := `@fragment
fn main(@location(0) color: vec4<f32>) -> @location(0) vec4<f32> {
    return color;
}`
	res, err := Default(0).Compile(src)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if res.Model != ModelWGSL {
		t.Errorf("Model = %v, want %v", res.Model, ModelWGSL)
	}
	if len(res.Code) < 4 || binary.LittleEndian.Uint32(res.Code) != 0x07230203 {
		t.Errorf("Code does not start with the SPIR-V magic number")
	}
	if res.Bank.Len() != 0 {
		t.Errorf("Bank.Len() = %d, want 0", res.Bank.Len())
	}
	if res.Usage.Kill {
		t.Error("Usage.Kill = true for a module without discard")
	}
	if !strings.Contains(res.Log, "fragment main") {
		t.Errorf("Log = %q, want it to name the entry point", res.Log)
	}
}
