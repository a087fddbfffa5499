package generator

import (
	"fmt"
	"sort"

	"github.com/gogpu/ffp/settings"
)

var combineOpcodes = map[settings.CombineFunction]string{
	settings.CombineReplace:   "MOV",
	settings.CombineModulate:  "MUL",
	settings.CombineAdd:       "ADD",
	settings.CombineAddSigned: "ADD",
	settings.CombineSubtract:  "SUB",
	settings.CombineDot3RGB:   "DP3",
	settings.CombineDot3RGBA:  "DP3",
}

// stageEmitter writes texture stage equations into body and records the
// temporaries they use, so the declarations can precede the code.
type stageEmitter struct {
	body    *code
	dst     string
	temps   map[string]bool
	lookups map[int]bool
}

func newStageEmitter() *stageEmitter {
	return &stageEmitter{
		body:    &code{},
		dst:     "texColorSum",
		temps:   make(map[string]bool),
		lookups: make(map[int]bool),
	}
}

// declarations returns the TEMP lines for every operand temporary used,
// ordered by operand index with RGB before ALPHA, followed by the lookup
// registers of crossbar units nobody samples.
func (e *stageEmitter) declarations(sampled func(unit int) bool) string {
	c := &code{}
	for j := 0; j < 4; j++ {
		for _, suffix := range []string{"RGB", "ALPHA"} {
			if name := fmt.Sprintf("operand%d%s", j, suffix); e.temps[name] {
				c.linef("TEMP %s;", name)
			}
		}
	}
	units := make([]int, 0, len(e.lookups))
	for u := range e.lookups {
		if !sampled(u) {
			units = append(units, u)
		}
	}
	sort.Ints(units)
	for _, u := range units {
		c.linef("TEMP %s;", lookupReg(u))
	}
	return c.sb.String()
}

// sameChannel reports whether one instruction can compute both channel
// groups: the equations match and every operand yields the same alpha.
func sameChannel(a, b channel) bool {
	if a.fn != b.fn || len(a.ops) != len(b.ops) {
		return false
	}
	for i := range a.ops {
		x, y := a.ops[i], b.ops[i]
		if x.reg != y.reg || x.oneMinus != y.oneMinus || x.last() != y.last() {
			return false
		}
	}
	return true
}

func (e *stageEmitter) emit(eq *stageEquation) {
	for _, u := range eq.crossbar {
		e.lookups[u] = true
	}

	rgbScale, alphaScale := eq.rgbScale, eq.alphaScale
	switch eq.rgb.fn {
	case settings.CombineDot3RGB:
		rgbScale *= 4
	case settings.CombineDot3RGBA:
		rgbScale *= 4
		alphaScale *= 4
	}
	sat := eq.clamp && rgbScale == 1 && alphaScale == 1

	if eq.rgb.fn == settings.CombineDot3RGBA || sameChannel(eq.rgb, eq.alpha) {
		e.channel(eq.rgb, "RGB", "rgba", sat, eq.nv)
	} else {
		e.channel(eq.rgb, "RGB", "rgb", sat, eq.nv)
		e.channel(eq.alpha, "ALPHA", "a", sat, eq.nv)
	}

	if rgbScale != 1 || alphaScale != 1 {
		e.body.linef("MUL%s %s, %s, {%d,%d,%d,%d};", satSuffix(eq.clamp), e.dst, e.dst,
			rgbScale, rgbScale, rgbScale, alphaScale)
	}
}

func satSuffix(sat bool) string {
	if sat {
		return "_SAT"
	}
	return ""
}

func (e *stageEmitter) temp(j int, suffix string) string {
	name := fmt.Sprintf("operand%d%s", j, suffix)
	e.temps[name] = true
	return name
}

func (e *stageEmitter) channel(ch channel, suffix, mask string, sat, nv bool) {
	c := e.body
	ops := append([]operand(nil), ch.ops...)

	for j, o := range ops {
		if !o.oneMinus {
			continue
		}
		t := e.temp(j, suffix)
		c.linef("SUB %s, %s, %s;", t, oneLiteral, o)
		ops[j] = operand{reg: t, swizzle: o.swizzle}
	}
	signed := func(j int) {
		t := e.temp(j, suffix)
		c.linef("SUB %s, %s, %s;", t, ops[j], halfLiteral)
		ops[j] = operand{reg: t, swizzle: ops[j].swizzle}
	}
	switch ch.fn {
	case settings.CombineAddSigned:
		if !nv {
			signed(1)
		}
	case settings.CombineDot3RGB, settings.CombineDot3RGBA:
		signed(0)
		signed(1)
	case settings.CombineModulateSignedAdd:
		signed(1)
	}

	dst := e.dst
	if mask != "rgba" {
		dst += "." + mask
	}
	s := satSuffix(sat)

	switch {
	case ch.fn == settings.CombineInterpolate:
		c.linef("LRP%s %s, %s, %s, %s;", s, dst, ops[2], ops[0], ops[1])
	case ch.fn == settings.CombineModulateAdd, ch.fn == settings.CombineModulateSignedAdd:
		c.linef("MAD%s %s, %s, %s, %s;", s, dst, ops[0], ops[2], ops[1])
	case ch.fn == settings.CombineModulateSubtract:
		c.linef("MAD%s %s, %s, %s, -%s;", s, dst, ops[0], ops[2], ops[1])
	case nv && ch.fn == settings.CombineAdd:
		t := e.temp(2, suffix)
		c.linef("MUL %s, %s, %s;", t, ops[2], ops[3])
		c.linef("MAD%s %s, %s, %s, %s;", s, dst, ops[0], ops[1], t)
	case nv && ch.fn == settings.CombineAddSigned:
		t := e.temp(2, suffix)
		c.linef("MAD %s, %s, %s, -%s;", t, ops[2], ops[3], halfLiteral)
		c.linef("MAD%s %s, %s, %s, %s;", s, dst, ops[0], ops[1], t)
	default:
		line := fmt.Sprintf("%s%s %s", combineOpcodes[ch.fn], s, dst)
		for _, o := range ops {
			line += ", " + o.String()
		}
		c.text(line + ";\n")
	}
}
