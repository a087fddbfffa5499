package generator

import (
	"fmt"

	"github.com/gogpu/ffp/settings"
)

// operand is one combiner input after source and operand resolution.
type operand struct {
	reg      string
	swizzle  string
	oneMinus bool
}

func (o operand) literal() bool { return len(o.reg) > 0 && o.reg[0] == '{' }

// String formats the operand as an instruction source. A full rgba
// swizzle and literals are written without a suffix.
func (o operand) String() string {
	if o.literal() || o.swizzle == "" || o.swizzle == "rgba" {
		return o.reg
	}
	return o.reg + "." + o.swizzle
}

// last returns the swizzle component read for the alpha channel.
func (o operand) last() byte {
	if o.swizzle == "" {
		return 'a'
	}
	return o.swizzle[len(o.swizzle)-1]
}

// channel is the equation of one channel group of a stage.
type channel struct {
	fn  settings.CombineFunction
	ops []operand
}

// stageEquation is a fully resolved texture stage.
type stageEquation struct {
	unit       int
	rgb, alpha channel
	rgbScale   int
	alphaScale int
	clamp      bool
	nv         bool

	// crossbar lists the units read through SourceTextureN.
	crossbar []int
}

const (
	zeroLiteral = "{0,0,0,0}"
	oneLiteral  = "{1,1,1,1}"
	halfLiteral = "{0.5,0.5,0.5,0.5}"
)

func lookupReg(unit int) string { return fmt.Sprintf("texLookupColor%d", unit) }

func texEnvColor(unit int) string { return fmt.Sprintf("state.texenv[%d].color", unit) }

// The fixed texture functions are expressed as combiner equations over
// three inputs: the previous stage result (P), this stage's lookup (T) and
// the environment color (C).
type envInput uint8

const (
	inPrevious envInput = iota
	inTexture
	inEnvColor
)

type envOperand struct {
	in      envInput
	swizzle string
}

type envChannel struct {
	fn  settings.CombineFunction
	ops []envOperand
}

type envKey struct {
	fn     settings.TextureFunction
	format settings.BaseFormat
}

var (
	opP     = envOperand{inPrevious, "rgba"}
	opT     = envOperand{inTexture, "rgba"}
	opC     = envOperand{inEnvColor, "rgba"}
	opTrrrr = envOperand{inTexture, "rrrr"}
	opTrrra = envOperand{inTexture, "rrra"}
	opTaaaa = envOperand{inTexture, "aaaa"}
)

func envReplace(a envOperand) envChannel { return envChannel{settings.CombineReplace, []envOperand{a}} }

func envModulate(a, b envOperand) envChannel {
	return envChannel{settings.CombineModulate, []envOperand{a, b}}
}

func envAdd(a, b envOperand) envChannel { return envChannel{settings.CombineAdd, []envOperand{a, b}} }

func envInterpolate(a, b, c envOperand) envChannel {
	return envChannel{settings.CombineInterpolate, []envOperand{a, b, c}}
}

// passThrough leaves the previous color unchanged. DECAL on formats without
// color uses it.
var passThrough = [2]envChannel{envReplace(opP), envReplace(opP)}

// texEnvTable maps a fixed texture function and base format to its RGB and
// alpha equations.
var texEnvTable = map[envKey][2]envChannel{
	{settings.Replace, settings.FormatAlpha}:          {envReplace(opP), envReplace(opT)},
	{settings.Replace, settings.FormatLuminance}:      {envReplace(opTrrrr), envReplace(opP)},
	{settings.Replace, settings.FormatLuminanceAlpha}: {envReplace(opTrrra), envReplace(opT)},
	{settings.Replace, settings.FormatIntensity}:      {envReplace(opTrrrr), envReplace(opTrrrr)},
	{settings.Replace, settings.FormatRGB}:            {envReplace(opT), envReplace(opP)},
	{settings.Replace, settings.FormatRGBA}:           {envReplace(opT), envReplace(opT)},

	{settings.Modulate, settings.FormatAlpha}:          {envReplace(opP), envModulate(opP, opT)},
	{settings.Modulate, settings.FormatLuminance}:      {envModulate(opP, opTrrrr), envReplace(opP)},
	{settings.Modulate, settings.FormatLuminanceAlpha}: {envModulate(opP, opTrrra), envModulate(opP, opTrrra)},
	{settings.Modulate, settings.FormatIntensity}:      {envModulate(opP, opTrrrr), envModulate(opP, opTrrrr)},
	{settings.Modulate, settings.FormatRGB}:            {envModulate(opP, opT), envReplace(opP)},
	{settings.Modulate, settings.FormatRGBA}:           {envModulate(opP, opT), envModulate(opP, opT)},

	{settings.Decal, settings.FormatAlpha}:          passThrough,
	{settings.Decal, settings.FormatLuminance}:      passThrough,
	{settings.Decal, settings.FormatLuminanceAlpha}: passThrough,
	{settings.Decal, settings.FormatIntensity}:      passThrough,
	{settings.Decal, settings.FormatRGB}:            {envReplace(opT), envReplace(opP)},
	{settings.Decal, settings.FormatRGBA}:           {envInterpolate(opT, opP, opTaaaa), envReplace(opP)},

	{settings.Blend, settings.FormatAlpha}:          {envReplace(opP), envModulate(opP, opT)},
	{settings.Blend, settings.FormatLuminance}:      {envInterpolate(opC, opP, opTrrrr), envReplace(opP)},
	{settings.Blend, settings.FormatLuminanceAlpha}: {envInterpolate(opC, opP, opTrrrr), envModulate(opP, opT)},
	{settings.Blend, settings.FormatIntensity}:      {envInterpolate(opC, opP, opTrrrr), envInterpolate(opC, opP, opTrrrr)},
	{settings.Blend, settings.FormatRGB}:            {envInterpolate(opC, opP, opT), envReplace(opP)},
	{settings.Blend, settings.FormatRGBA}:           {envInterpolate(opC, opP, opT), envModulate(opP, opT)},

	{settings.Add, settings.FormatAlpha}:          {envReplace(opP), envModulate(opP, opT)},
	{settings.Add, settings.FormatLuminance}:      {envAdd(opP, opTrrrr), envReplace(opP)},
	{settings.Add, settings.FormatLuminanceAlpha}: {envAdd(opP, opTrrrr), envModulate(opP, opT)},
	{settings.Add, settings.FormatIntensity}:      {envAdd(opP, opTrrrr), envAdd(opP, opTrrrr)},
	{settings.Add, settings.FormatRGB}:            {envAdd(opP, opT), envReplace(opP)},
	{settings.Add, settings.FormatRGBA}:           {envAdd(opP, opT), envModulate(opP, opT)},
}

// undefinedDecal reports whether DECAL has no defined result for format.
func undefinedDecal(fn settings.TextureFunction, format settings.BaseFormat) bool {
	return fn == settings.Decal && format != settings.FormatRGB && format != settings.FormatRGBA
}

// fixedEquation resolves a stage using one of the fixed texture functions.
func fixedEquation(unit int, st *settings.TextureStage, input string) (stageEquation, error) {
	chans, ok := texEnvTable[envKey{st.Function, st.Format}]
	if !ok {
		return stageEquation{}, &settings.ValueError{
			Field: fmt.Sprintf("stages[%d].format", unit),
			Value: st.Format.String(),
		}
	}
	resolve := func(ec envChannel) channel {
		ch := channel{fn: ec.fn}
		for _, o := range ec.ops {
			reg := input
			switch o.in {
			case inTexture:
				reg = lookupReg(unit)
			case inEnvColor:
				reg = texEnvColor(unit)
			}
			ch.ops = append(ch.ops, operand{reg: reg, swizzle: o.swizzle})
		}
		return ch
	}
	return stageEquation{
		unit:       unit,
		rgb:        resolve(chans[0]),
		alpha:      resolve(chans[1]),
		rgbScale:   1,
		alphaScale: 1,
	}, nil
}

// combineEquation resolves a stage using its combine record.
func combineEquation(unit int, st *settings.TextureStage, input string) stageEquation {
	cm := &st.Combine
	nv := st.Function == settings.Combine4NV
	eq := stageEquation{
		unit:       unit,
		rgbScale:   int(cm.RGBScale),
		alphaScale: int(cm.AlphaScale),
		clamp:      true,
		nv:         nv,
	}
	resolve := func(fn settings.CombineFunction, srcs [4]settings.CombineSource, ops [4]settings.CombineOperand, xbar [4]uint8) channel {
		ch := channel{fn: fn}
		for j := 0; j < fn.Operands(nv); j++ {
			if srcs[j] == settings.SourceTextureN {
				eq.crossbar = append(eq.crossbar, int(xbar[j]))
			}
			ch.ops = append(ch.ops, combineOperand(unit, input, srcs[j], ops[j], xbar[j]))
		}
		return ch
	}
	eq.rgb = resolve(cm.RGB, cm.SrcRGB, cm.OperandRGB, cm.CrossbarRGB)
	eq.alpha = resolve(cm.Alpha, cm.SrcAlpha, cm.OperandAlpha, cm.CrossbarAlpha)
	return eq
}

func combineOperand(unit int, input string, src settings.CombineSource, op settings.CombineOperand, xbar uint8) operand {
	o := operand{swizzle: "rgba"}
	if op == settings.OperandSrcAlpha || op == settings.OperandOneMinusSrcAlpha {
		o.swizzle = "aaaa"
	}
	switch src {
	case settings.SourceZero:
		o.reg = zeroLiteral
		if op.OneMinus() {
			o.reg = oneLiteral
		}
		return o
	case settings.SourceOne:
		o.reg = oneLiteral
		if op.OneMinus() {
			o.reg = zeroLiteral
		}
		return o
	case settings.SourceTexture:
		o.reg = lookupReg(unit)
	case settings.SourceTextureN:
		o.reg = lookupReg(int(xbar))
	case settings.SourceConstant:
		o.reg = texEnvColor(unit)
	case settings.SourcePrimaryColor:
		o.reg = "iColorPrim"
	case settings.SourcePrevious:
		o.reg = input
	}
	o.oneMinus = op.OneMinus()
	return o
}
