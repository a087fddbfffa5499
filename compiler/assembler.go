package compiler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/ffp/regbank"
)

// MaxProgramParameters is the number of program.local and program.env
// parameters of each program.
const MaxProgramParameters = 96

const headerLen = len("!!ARBvp1.0")

// ARB assembles ARB vertex and fragment programs. Every parameter a
// program reads (literals, state bindings, program.local and program.env)
// gets a slot in the result's bank.
//
// ARB holds no per-program state and may be shared.
type ARB struct {
	bankSize int
}

// NewARB returns an assembler whose programs use a bank of bankSize slots,
// or regbank.DefaultSize when bankSize is not positive.
func NewARB(bankSize int) *ARB {
	if bankSize <= 0 {
		bankSize = regbank.DefaultSize
	}
	return &ARB{bankSize: bankSize}
}

// Compile assembles source. Errors in the program text are returned as
// *SyntaxError; running out of bank slots wraps regbank.ErrBankExhausted.
func (c *ARB) Compile(source string) (*Result, error) {
	model := DetectModel(source)
	if model != ModelARBVertex && model != ModelARBFragment {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProgramModel, model)
	}
	trimmed := strings.TrimLeft(source, " \t\r\n")
	line := 1 + strings.Count(source[:len(source)-len(trimmed)], "\n")

	toks, err := tokenize(trimmed[headerLen:], line)
	if err != nil {
		return nil, err
	}
	a := newAssembler(model, toks, regbank.New(c.bankSize))
	if err := a.program(); err != nil {
		return nil, err
	}

	res := &Result{
		Model:        model,
		Code:         encode(a),
		Bank:         a.bank,
		Usage:        a.usage,
		Instructions: len(a.instrs),
		Parameters:   a.bank.Used(),
	}
	res.Log = fmt.Sprintf("%s: %d instructions, %d temporaries, %d parameters, %d attributes",
		model, res.Instructions, a.temps, res.Parameters, a.attribs)
	return res, nil
}

type regFile uint8

const (
	fileNone regFile = iota
	fileTemp
	fileInput
	fileOutput
	fileParam
	fileAddress
)

type symKind uint8

const (
	symTemp symKind = iota
	symAttrib
	symParam
	symOutput
	symAddress
)

var symKindNames = [...]string{
	symTemp:    "TEMP",
	symAttrib:  "ATTRIB",
	symParam:   "PARAM",
	symOutput:  "OUTPUT",
	symAddress: "ADDRESS",
}

type symbol struct {
	kind  symKind
	regs  []int
	array bool
}

func (s *symbol) file() regFile {
	switch s.kind {
	case symTemp:
		return fileTemp
	case symAttrib:
		return fileInput
	case symParam:
		return fileParam
	case symOutput:
		return fileOutput
	case symAddress:
		return fileAddress
	}
	return fileNone
}

type srcOperand struct {
	file    regFile
	index   int
	swizzle [4]uint8
	negate  bool
}

type dstOperand struct {
	file  regFile
	index int
	mask  uint8
}

type instruction struct {
	op     opcode
	sat    bool
	dst    dstOperand
	src    []srcOperand
	unit   int
	target gputypes.TextureViewDimension
	line   int
}

const fullMask = 0xf

var identitySwizzle = [4]uint8{0, 1, 2, 3}

var keywords = map[string]bool{
	"ATTRIB": true, "PARAM": true, "TEMP": true, "OUTPUT": true, "ADDRESS": true,
	"ALIAS": true, "OPTION": true, "END": true,
	"state": true, "program": true, "vertex": true, "fragment": true,
	"result": true, "texture": true,
}

var knownOptions = map[Model]map[string]bool{
	ModelARBVertex: {
		"ARB_position_invariant": true,
	},
	ModelARBFragment: {
		"ARB_fog_exp":                true,
		"ARB_fog_exp2":               true,
		"ARB_fog_linear":             true,
		"ARB_precision_hint_fastest": true,
		"ARB_precision_hint_nicest":  true,
	},
}

var textureTargets = map[string]gputypes.TextureViewDimension{
	"1D":   gputypes.TextureViewDimension1D,
	"2D":   gputypes.TextureViewDimension2D,
	"3D":   gputypes.TextureViewDimension3D,
	"CUBE": gputypes.TextureViewDimensionCube,
	"RECT": gputypes.TextureViewDimension2D,
}

// assembler holds the state of one Compile call.
type assembler struct {
	model   Model
	toks    []token
	pos     int
	bank    *regbank.Bank
	symbols map[string]*symbol
	options map[string]bool
	targets map[int]string

	temps     int
	attribs   int
	outputs   int
	addresses int

	instrs []instruction
	usage  Usage
}

func newAssembler(model Model, toks []token, bank *regbank.Bank) *assembler {
	return &assembler{
		model:   model,
		toks:    toks,
		bank:    bank,
		symbols: make(map[string]*symbol),
		options: make(map[string]bool),
		targets: make(map[int]string),
	}
}

func (a *assembler) peek() token { return a.toks[a.pos] }

func (a *assembler) next() token {
	t := a.toks[a.pos]
	if t.kind != tokEOF {
		a.pos++
	}
	return t
}

func (a *assembler) check(kind tokenKind) bool { return a.peek().kind == kind }

func (a *assembler) match(kind tokenKind) bool {
	if a.check(kind) {
		a.next()
		return true
	}
	return false
}

func (a *assembler) expect(kind tokenKind) (token, error) {
	t := a.peek()
	if t.kind != kind {
		return t, a.errorf(t, "expected %s, found %s", kind, t)
	}
	return a.next(), nil
}

func (a *assembler) errorf(t token, format string, args ...any) error {
	return &SyntaxError{Line: t.line, Msg: fmt.Sprintf(format, args...)}
}

func (a *assembler) program() error {
	for {
		t := a.peek()
		switch {
		case t.kind == tokEOF:
			return a.errorf(t, "missing END")
		case t.kind != tokIdent:
			return a.errorf(t, "unexpected %s", t)
		case t.text == "END":
			return nil
		}
		if err := a.statement(); err != nil {
			return err
		}
	}
}

func (a *assembler) statement() error {
	t := a.next()
	var err error
	switch t.text {
	case "ATTRIB":
		err = a.attribDecl()
	case "PARAM":
		err = a.paramDecl()
	case "TEMP":
		err = a.tempDecl(symTemp)
	case "ADDRESS":
		if a.model != ModelARBVertex {
			return a.errorf(t, "ADDRESS is not available in %s", a.model)
		}
		err = a.tempDecl(symAddress)
	case "OUTPUT":
		err = a.outputDecl()
	case "ALIAS":
		err = a.aliasDecl()
	case "OPTION":
		err = a.optionDecl()
	default:
		err = a.instruction(t)
	}
	if err != nil {
		return err
	}
	_, err = a.expect(tokSemicolon)
	return err
}

// declare binds a new name.
func (a *assembler) declare(t token, sym *symbol) error {
	if keywords[t.text] {
		return a.errorf(t, "%q is reserved", t.text)
	}
	if _, ok := opcodeByName[strings.TrimSuffix(t.text, "_SAT")]; ok {
		return a.errorf(t, "%q is reserved", t.text)
	}
	if _, ok := a.symbols[t.text]; ok {
		return a.errorf(t, "%q redeclared", t.text)
	}
	a.symbols[t.text] = sym
	return nil
}

func (a *assembler) attribDecl() error {
	name, err := a.expect(tokIdent)
	if err != nil {
		return err
	}
	if _, err := a.expect(tokEqual); err != nil {
		return err
	}
	at := a.peek()
	p, err := a.parsePath()
	if err != nil {
		return err
	}
	root := a.inputRoot()
	if p[0].name != root {
		return a.errorf(at, "ATTRIB %s must bind a %s.* input", name.text, root)
	}
	reg, err := attribBinding(a.model, p[1:])
	if err != nil {
		return a.errorf(at, "%v", err)
	}
	a.attribs++
	return a.declare(name, &symbol{kind: symAttrib, regs: []int{reg}})
}

func (a *assembler) inputRoot() string {
	if a.model == ModelARBFragment {
		return "fragment"
	}
	return "vertex"
}

func (a *assembler) tempDecl(kind symKind) error {
	for {
		name, err := a.expect(tokIdent)
		if err != nil {
			return err
		}
		sym := &symbol{kind: kind}
		if kind == symAddress {
			sym.regs = []int{a.addresses}
			a.addresses++
		} else {
			sym.regs = []int{a.temps}
			a.temps++
		}
		if err := a.declare(name, sym); err != nil {
			return err
		}
		if !a.match(tokComma) {
			return nil
		}
	}
}

func (a *assembler) outputDecl() error {
	name, err := a.expect(tokIdent)
	if err != nil {
		return err
	}
	if _, err := a.expect(tokEqual); err != nil {
		return err
	}
	at := a.peek()
	p, err := a.parsePath()
	if err != nil {
		return err
	}
	if p[0].name != "result" {
		return a.errorf(at, "OUTPUT %s must bind a result.* output", name.text)
	}
	reg, err := resultBinding(a.model, p[1:])
	if err != nil {
		return a.errorf(at, "%v", err)
	}
	a.outputs++
	return a.declare(name, &symbol{kind: symOutput, regs: []int{reg}})
}

func (a *assembler) aliasDecl() error {
	name, err := a.expect(tokIdent)
	if err != nil {
		return err
	}
	if _, err := a.expect(tokEqual); err != nil {
		return err
	}
	target, err := a.expect(tokIdent)
	if err != nil {
		return err
	}
	sym, ok := a.symbols[target.text]
	if !ok {
		return a.errorf(target, "undeclared name %q", target.text)
	}
	return a.declare(name, sym)
}

func (a *assembler) optionDecl() error {
	name, err := a.expect(tokIdent)
	if err != nil {
		return err
	}
	if !knownOptions[a.model][name.text] {
		return a.errorf(name, "unknown option %q", name.text)
	}
	a.options[name.text] = true
	return nil
}

// paramDecl parses a single parameter or a parameter array:
//
//	PARAM c = { 0.0, 0.0, 0.0, 1.0 };
//	PARAM mvm[4] = { state.matrix.modelview };
func (a *assembler) paramDecl() error {
	name, err := a.expect(tokIdent)
	if err != nil {
		return err
	}
	size := -1
	array := false
	if a.match(tokLBracket) {
		array = true
		if a.check(tokNumber) {
			if size, err = a.integer(); err != nil {
				return err
			}
		}
		if _, err := a.expect(tokRBracket); err != nil {
			return err
		}
	}
	if _, err := a.expect(tokEqual); err != nil {
		return err
	}

	var regs []int
	if !array {
		at := a.peek()
		if regs, err = a.paramItem(); err != nil {
			return err
		}
		if len(regs) != 1 {
			return a.errorf(at, "PARAM %s binds %d vectors, use an array", name.text, len(regs))
		}
		return a.declare(name, &symbol{kind: symParam, regs: regs})
	}

	open, err := a.expect(tokLBrace)
	if err != nil {
		return err
	}
	for {
		item, err := a.paramItem()
		if err != nil {
			return err
		}
		regs = append(regs, item...)
		if !a.match(tokComma) {
			break
		}
	}
	if _, err := a.expect(tokRBrace); err != nil {
		return err
	}
	if size >= 0 && size != len(regs) {
		return a.errorf(open, "PARAM %s[%d] initialized with %d vectors", name.text, size, len(regs))
	}
	return a.declare(name, &symbol{kind: symParam, regs: regs, array: true})
}

// paramItem parses one initializer and returns the bank slots it fills.
func (a *assembler) paramItem() ([]int, error) {
	t := a.peek()
	switch t.kind {
	case tokLBrace:
		v, err := a.vectorLiteral()
		if err != nil {
			return nil, err
		}
		pos, err := a.allocate(t, v, regbank.Constant, 0, 0)
		return []int{pos}, err
	case tokNumber, tokMinus, tokPlus:
		x, err := a.signedNumber()
		if err != nil {
			return nil, err
		}
		pos, err := a.allocate(t, f32.Vec4{x, x, x, x}, regbank.Constant, 0, 0)
		return []int{pos}, err
	}
	p, err := a.parsePath()
	if err != nil {
		return nil, err
	}
	switch p[0].name {
	case "state":
		refs, err := stateBinding(p[1:])
		if err != nil {
			return nil, a.errorf(t, "%v", err)
		}
		regs := make([]int, len(refs))
		for i, r := range refs {
			if regs[i], err = a.allocate(t, f32.Vec4{}, regbank.DeviceState, int(r.key), r.row); err != nil {
				return nil, err
			}
		}
		return regs, nil
	case "program":
		role, first, last, err := programParam(p)
		if err != nil {
			return nil, a.errorf(t, "%v", err)
		}
		regs := make([]int, 0, last-first+1)
		for i := first; i <= last; i++ {
			pos, err := a.allocate(t, f32.Vec4{}, role, i, 0)
			if err != nil {
				return nil, err
			}
			regs = append(regs, pos)
		}
		return regs, nil
	}
	return nil, a.errorf(t, "invalid PARAM binding %q", p)
}

// programParam resolves program.local[a..b] and program.env[a..b].
func programParam(p path) (regbank.Role, int, int, error) {
	if len(p) != 2 || !p[1].indexed() {
		return 0, 0, 0, fmt.Errorf("invalid program parameter %q", p)
	}
	var role regbank.Role
	switch p[1].name {
	case "local":
		role = regbank.LocalParam
	case "env":
		role = regbank.EnvParam
	default:
		return 0, 0, 0, fmt.Errorf("invalid program parameter %q", p)
	}
	if p[1].end >= MaxProgramParameters || p[1].end < p[1].index {
		return 0, 0, 0, fmt.Errorf("program parameter %q out of range", p)
	}
	return role, p[1].index, p[1].end, nil
}

func (a *assembler) allocate(t token, v f32.Vec4, role regbank.Role, index0, index1 int) (int, error) {
	pos, err := a.bank.Allocate(v, role, index0, index1)
	if err != nil {
		return 0, fmt.Errorf("compiler: line %d: %w", t.line, err)
	}
	return pos, nil
}

// vectorLiteral parses {x[, y[, z[, w]]]}. Missing components default to
// (x, 0, 0, 1).
func (a *assembler) vectorLiteral() (f32.Vec4, error) {
	v := f32.Vec4{0, 0, 0, 1}
	open, err := a.expect(tokLBrace)
	if err != nil {
		return v, err
	}
	for i := 0; ; i++ {
		if i == 4 {
			return v, a.errorf(open, "vector literal has more than 4 components")
		}
		if v[i], err = a.signedNumber(); err != nil {
			return v, err
		}
		if !a.match(tokComma) {
			break
		}
	}
	_, err = a.expect(tokRBrace)
	return v, err
}

func (a *assembler) signedNumber() (float32, error) {
	neg := false
	if a.match(tokMinus) {
		neg = true
	} else {
		a.match(tokPlus)
	}
	t, err := a.expect(tokNumber)
	if err != nil {
		return 0, err
	}
	x, err := strconv.ParseFloat(t.text, 32)
	if err != nil {
		return 0, a.errorf(t, "invalid number %q", t.text)
	}
	if neg {
		x = -x
	}
	return float32(x), nil
}

func (a *assembler) integer() (int, error) {
	t, err := a.expect(tokNumber)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(t.text)
	if err != nil || n < 0 {
		return 0, a.errorf(t, "invalid index %q", t.text)
	}
	return n, nil
}

// parsePath parses name(.name | [n] | [a..b])*.
func (a *assembler) parsePath() (path, error) {
	t, err := a.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	p := path{{name: t.text, index: -1, end: -1}}
	for {
		switch {
		case a.check(tokLBracket):
			open := a.next()
			last := &p[len(p)-1]
			if last.indexed() {
				return nil, a.errorf(open, "unexpected '['")
			}
			if a.check(tokIdent) {
				return nil, a.errorf(open, "relative addressing is not supported")
			}
			if last.index, err = a.integer(); err != nil {
				return nil, err
			}
			last.end = last.index
			if a.match(tokDotDot) {
				if last.end, err = a.integer(); err != nil {
					return nil, err
				}
			}
			if _, err := a.expect(tokRBracket); err != nil {
				return nil, err
			}
		case a.check(tokDot) && a.toks[a.pos+1].kind == tokIdent:
			a.next()
			p = append(p, part{name: a.next().text, index: -1, end: -1})
		default:
			return p, nil
		}
	}
}

func (a *assembler) instruction(t token) error {
	name, sat := t.text, false
	if base, ok := strings.CutSuffix(name, "_SAT"); ok {
		name, sat = base, true
	}
	op, ok := opcodeByName[name]
	if !ok {
		if _, declared := a.symbols[t.text]; declared || keywords[t.text] {
			return a.errorf(t, "expected an instruction, found %q", t.text)
		}
		return a.errorf(t, "unknown instruction %q", t.text)
	}
	info := opcodes[op]
	if !info.accepts(a.model) {
		return a.errorf(t, "%s is not available in %s", info.name, a.model)
	}
	if sat && a.model != ModelARBFragment {
		return a.errorf(t, "%s: saturation is not available in %s", t.text, a.model)
	}

	in := instruction{op: op, sat: sat, line: t.line}
	if !info.noDst {
		dst, err := a.dstOperand(op)
		if err != nil {
			return err
		}
		in.dst = dst
		if _, err := a.expect(tokComma); err != nil {
			return err
		}
	}
	for i := 0; i < info.srcs; i++ {
		if i > 0 {
			if _, err := a.expect(tokComma); err != nil {
				return err
			}
		}
		src, err := a.srcOperand()
		if err != nil {
			return err
		}
		in.src = append(in.src, src)
	}
	if info.texture {
		if err := a.textureOperand(&in); err != nil {
			return err
		}
	}
	if op == opKIL {
		a.usage.Kill = true
	}
	a.instrs = append(a.instrs, in)
	return nil
}

// textureOperand parses ", texture[n], TARGET" and records the unit usage.
func (a *assembler) textureOperand(in *instruction) error {
	if _, err := a.expect(tokComma); err != nil {
		return err
	}
	at := a.peek()
	p, err := a.parsePath()
	if err != nil {
		return err
	}
	if len(p) != 1 || p[0].name != "texture" {
		return a.errorf(at, "expected texture[n], found %q", p)
	}
	unit, err := unitIndex(p[0], MaxTextureUnits, true)
	if err != nil {
		return a.errorf(at, "%v", err)
	}
	if _, err := a.expect(tokComma); err != nil {
		return err
	}
	tt, err := a.expect(tokIdent)
	if err != nil {
		return err
	}
	dim, ok := textureTargets[tt.text]
	if !ok {
		return a.errorf(tt, "unknown texture target %q", tt.text)
	}
	if prev, ok := a.targets[unit]; ok && prev != tt.text {
		return a.errorf(tt, "texture unit %d sampled as both %s and %s", unit, prev, tt.text)
	}
	a.targets[unit] = tt.text
	a.usage.Texture[unit] = dim
	in.unit, in.target = unit, dim
	return nil
}

func (a *assembler) dstOperand(op opcode) (dstOperand, error) {
	t := a.peek()
	p, err := a.parsePath()
	if err != nil {
		return dstOperand{}, err
	}
	file, index, err := a.dstRegister(p)
	mask := uint8(fullMask)
	if err != nil && len(p) > 1 && a.swizzleLike(p[len(p)-1]) {
		var err2 error
		if file, index, err2 = a.dstRegister(p[:len(p)-1]); err2 == nil {
			err = nil
			if mask, err2 = a.writeMask(p[len(p)-1].name); err2 != nil {
				return dstOperand{}, a.errorf(t, "%v", err2)
			}
		}
	}
	if err != nil {
		return dstOperand{}, a.errorf(t, "%v", err)
	}
	if (op == opARL) != (file == fileAddress) {
		if op == opARL {
			return dstOperand{}, a.errorf(t, "ARL must write an ADDRESS register")
		}
		return dstOperand{}, a.errorf(t, "only ARL can write ADDRESS register %q", p)
	}
	return dstOperand{file: file, index: index, mask: mask}, nil
}

func (a *assembler) dstRegister(p path) (regFile, int, error) {
	switch p[0].name {
	case "result":
		reg, err := resultBinding(a.model, p[1:])
		return fileOutput, reg, err
	case "state", "program", "vertex", "fragment", "texture":
		return fileNone, 0, fmt.Errorf("cannot write to %q", p)
	}
	sym, ok := a.symbols[p[0].name]
	if !ok {
		return fileNone, 0, fmt.Errorf("undeclared name %q", p[0].name)
	}
	if len(p) != 1 || p[0].indexed() {
		return fileNone, 0, fmt.Errorf("invalid destination %q", p)
	}
	switch sym.kind {
	case symParam, symAttrib:
		return fileNone, 0, fmt.Errorf("cannot write to %s %q", symKindNames[sym.kind], p[0].name)
	}
	return sym.file(), sym.regs[0], nil
}

func (a *assembler) srcOperand() (srcOperand, error) {
	neg := false
	if a.match(tokMinus) {
		neg = true
	} else {
		a.match(tokPlus)
	}
	t := a.peek()
	src := srcOperand{file: fileParam, swizzle: identitySwizzle, negate: neg}
	switch t.kind {
	case tokLBrace:
		v, err := a.vectorLiteral()
		if err != nil {
			return src, err
		}
		src.index, err = a.allocate(t, v, regbank.Constant, 0, 0)
		return src, err
	case tokNumber:
		x, err := a.signedNumber()
		if err != nil {
			return src, err
		}
		src.index, err = a.allocate(t, f32.Vec4{x, x, x, x}, regbank.Constant, 0, 0)
		return src, err
	}

	p, err := a.parsePath()
	if err != nil {
		return src, err
	}
	file, index, err := a.srcRegister(t, p)
	var be *bankError
	if err != nil && !errors.As(err, &be) && len(p) > 1 && a.swizzleLike(p[len(p)-1]) {
		f, i, err2 := a.srcRegister(t, p[:len(p)-1])
		if err2 == nil || errors.As(err2, &be) {
			file, index, err = f, i, err2
			src.swizzle = a.swizzle(p[len(p)-1].name)
		}
	}
	if err != nil {
		if errors.As(err, &be) {
			return src, be.err
		}
		return src, a.errorf(t, "%v", err)
	}
	src.file, src.index = file, index
	return src, nil
}

// srcRegister resolves a readable path. Bank allocation failures are
// returned as they are; everything else is a plain error the caller
// turns into a SyntaxError.
func (a *assembler) srcRegister(t token, p path) (regFile, int, error) {
	switch p[0].name {
	case "state":
		refs, err := stateBinding(p[1:])
		if err != nil {
			return fileNone, 0, err
		}
		if len(refs) != 1 {
			return fileNone, 0, fmt.Errorf("%q binds %d vectors, select a row", p, len(refs))
		}
		pos, err := a.allocate(t, f32.Vec4{}, regbank.DeviceState, int(refs[0].key), refs[0].row)
		if err != nil {
			return fileNone, 0, &bankError{err}
		}
		return fileParam, pos, nil
	case "program":
		role, first, last, err := programParam(p)
		if err != nil {
			return fileNone, 0, err
		}
		if first != last {
			return fileNone, 0, fmt.Errorf("%q is a range", p)
		}
		pos, err := a.allocate(t, f32.Vec4{}, role, first, 0)
		if err != nil {
			return fileNone, 0, &bankError{err}
		}
		return fileParam, pos, nil
	case "vertex", "fragment":
		if p[0].name != a.inputRoot() {
			return fileNone, 0, fmt.Errorf("%s inputs are not available in %s", p[0].name, a.model)
		}
		reg, err := attribBinding(a.model, p[1:])
		return fileInput, reg, err
	case "result":
		return fileNone, 0, fmt.Errorf("cannot read %q", p)
	}

	sym, ok := a.symbols[p[0].name]
	if !ok {
		return fileNone, 0, fmt.Errorf("undeclared name %q", p[0].name)
	}
	if len(p) != 1 {
		return fileNone, 0, fmt.Errorf("invalid operand %q", p)
	}
	switch sym.kind {
	case symOutput:
		return fileNone, 0, fmt.Errorf("cannot read OUTPUT %q", p[0].name)
	case symAddress:
		return fileNone, 0, fmt.Errorf("cannot read ADDRESS %q", p[0].name)
	}
	switch {
	case sym.array && !p[0].indexed():
		return fileNone, 0, fmt.Errorf("array %q requires an index", p[0].name)
	case !sym.array && p[0].indexed():
		return fileNone, 0, fmt.Errorf("%q is not an array", p[0].name)
	case sym.array:
		if p[0].end != p[0].index || p[0].index >= len(sym.regs) {
			return fileNone, 0, fmt.Errorf("index %q out of range", p)
		}
		return sym.file(), sym.regs[p[0].index], nil
	}
	return sym.file(), sym.regs[0], nil
}

// bankError marks an allocation failure so the swizzle retry keeps it.
type bankError struct{ err error }

func (e *bankError) Error() string { return e.err.Error() }
func (e *bankError) Unwrap() error { return e.err }

const (
	xyzw = "xyzw"
	rgba = "rgba"
)

// swizzleLike reports whether a path component can be a swizzle or a
// write mask in this model.
func (a *assembler) swizzleLike(p part) bool {
	if p.indexed() || len(p.name) == 0 || len(p.name) > 4 {
		return false
	}
	sets := []string{xyzw}
	if a.model == ModelARBFragment {
		sets = append(sets, rgba)
	}
	for _, set := range sets {
		ok := true
		for i := 0; i < len(p.name); i++ {
			if strings.IndexByte(set, p.name[i]) < 0 {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func componentIndex(c byte) uint8 {
	if i := strings.IndexByte(xyzw, c); i >= 0 {
		return uint8(i)
	}
	return uint8(strings.IndexByte(rgba, c))
}

// swizzle expands a one or four component selector. Two and three
// component selectors repeat their last component.
func (a *assembler) swizzle(s string) [4]uint8 {
	var sw [4]uint8
	for i := range sw {
		j := i
		if j >= len(s) {
			j = len(s) - 1
		}
		sw[i] = componentIndex(s[j])
	}
	return sw
}

// writeMask converts a destination mask. Components must appear in order
// and at most once.
func (a *assembler) writeMask(s string) (uint8, error) {
	var mask uint8
	last := -1
	for i := 0; i < len(s); i++ {
		c := int(componentIndex(s[i]))
		if c <= last {
			return 0, fmt.Errorf("invalid write mask %q", s)
		}
		mask |= 1 << c
		last = c
	}
	return mask, nil
}
