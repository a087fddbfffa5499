package compiler

// opcode numbers are part of the encoded program format.
type opcode uint8

const (
	opABS opcode = iota + 1
	opADD
	opARL
	opCMP
	opCOS
	opDP3
	opDP4
	opDPH
	opDST
	opEX2
	opEXP
	opFLR
	opFRC
	opKIL
	opLG2
	opLIT
	opLOG
	opLRP
	opMAD
	opMAX
	opMIN
	opMOV
	opMUL
	opPOW
	opRCP
	opRSQ
	opSCS
	opSGE
	opSIN
	opSLT
	opSUB
	opTEX
	opTXB
	opTXP
	opXPD
)

// opInfo describes the operands of an instruction and the models that
// accept it.
type opInfo struct {
	name     string
	srcs     int
	noDst    bool
	texture  bool
	vertex   bool
	fragment bool
}

var opcodes = map[opcode]opInfo{
	opABS: {name: "ABS", srcs: 1, vertex: true, fragment: true},
	opADD: {name: "ADD", srcs: 2, vertex: true, fragment: true},
	opARL: {name: "ARL", srcs: 1, vertex: true},
	opCMP: {name: "CMP", srcs: 3, fragment: true},
	opCOS: {name: "COS", srcs: 1, fragment: true},
	opDP3: {name: "DP3", srcs: 2, vertex: true, fragment: true},
	opDP4: {name: "DP4", srcs: 2, vertex: true, fragment: true},
	opDPH: {name: "DPH", srcs: 2, vertex: true, fragment: true},
	opDST: {name: "DST", srcs: 2, vertex: true, fragment: true},
	opEX2: {name: "EX2", srcs: 1, vertex: true, fragment: true},
	opEXP: {name: "EXP", srcs: 1, vertex: true},
	opFLR: {name: "FLR", srcs: 1, vertex: true, fragment: true},
	opFRC: {name: "FRC", srcs: 1, vertex: true, fragment: true},
	opKIL: {name: "KIL", srcs: 1, noDst: true, fragment: true},
	opLG2: {name: "LG2", srcs: 1, vertex: true, fragment: true},
	opLIT: {name: "LIT", srcs: 1, vertex: true, fragment: true},
	opLOG: {name: "LOG", srcs: 1, vertex: true},
	opLRP: {name: "LRP", srcs: 3, fragment: true},
	opMAD: {name: "MAD", srcs: 3, vertex: true, fragment: true},
	opMAX: {name: "MAX", srcs: 2, vertex: true, fragment: true},
	opMIN: {name: "MIN", srcs: 2, vertex: true, fragment: true},
	opMOV: {name: "MOV", srcs: 1, vertex: true, fragment: true},
	opMUL: {name: "MUL", srcs: 2, vertex: true, fragment: true},
	opPOW: {name: "POW", srcs: 2, vertex: true, fragment: true},
	opRCP: {name: "RCP", srcs: 1, vertex: true, fragment: true},
	opRSQ: {name: "RSQ", srcs: 1, vertex: true, fragment: true},
	opSCS: {name: "SCS", srcs: 1, fragment: true},
	opSGE: {name: "SGE", srcs: 2, vertex: true, fragment: true},
	opSIN: {name: "SIN", srcs: 1, fragment: true},
	opSLT: {name: "SLT", srcs: 2, vertex: true, fragment: true},
	opSUB: {name: "SUB", srcs: 2, vertex: true, fragment: true},
	opTEX: {name: "TEX", srcs: 1, texture: true, fragment: true},
	opTXB: {name: "TXB", srcs: 1, texture: true, fragment: true},
	opTXP: {name: "TXP", srcs: 1, texture: true, fragment: true},
	opXPD: {name: "XPD", srcs: 2, vertex: true, fragment: true},
}

var opcodeByName = func() map[string]opcode {
	m := make(map[string]opcode, len(opcodes))
	for op, info := range opcodes {
		m[info.name] = op
	}
	return m
}()

func (op opcode) String() string { return opcodes[op].name }

// accepts reports whether the model has the instruction.
func (info opInfo) accepts(m Model) bool {
	if m == ModelARBFragment {
		return info.fragment
	}
	return info.vertex
}
