package compiler

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
)

// Encoded program layout, little endian:
//
//	magic   [4]byte "ARBP"
//	version uint8
//	model   uint8
//	temps, attribs, outputs, count uint16
//	count instructions:
//	  op, flags, dst file, dst mask uint8; dst index uint16; nsrc uint8
//	  nsrc sources: file, negate, swizzle uint8; index uint16
//	  texture instructions: unit, target uint8
//
// The swizzle packs four 2-bit component selectors, x in the low bits.
var magic = [4]byte{'A', 'R', 'B', 'P'}

const encodingVersion = 1

const flagSat = 1

// ErrInvalidCode is returned by Decode for malformed program code.
var ErrInvalidCode = errors.New("compiler: invalid program code")

func encode(a *assembler) []byte {
	b := make([]byte, 0, 16+len(a.instrs)*24)
	b = append(b, magic[:]...)
	b = append(b, encodingVersion, byte(a.model))
	b = binary.LittleEndian.AppendUint16(b, uint16(a.temps))
	b = binary.LittleEndian.AppendUint16(b, uint16(a.attribs))
	b = binary.LittleEndian.AppendUint16(b, uint16(a.outputs))
	b = binary.LittleEndian.AppendUint16(b, uint16(len(a.instrs)))
	for i := range a.instrs {
		in := &a.instrs[i]
		var flags byte
		if in.sat {
			flags |= flagSat
		}
		b = append(b, byte(in.op), flags, byte(in.dst.file), in.dst.mask)
		b = binary.LittleEndian.AppendUint16(b, uint16(in.dst.index))
		b = append(b, byte(len(in.src)))
		for _, s := range in.src {
			var neg byte
			if s.negate {
				neg = 1
			}
			sw := s.swizzle[0] | s.swizzle[1]<<2 | s.swizzle[2]<<4 | s.swizzle[3]<<6
			b = append(b, byte(s.file), neg, sw)
			b = binary.LittleEndian.AppendUint16(b, uint16(s.index))
		}
		if opcodes[in.op].texture {
			b = append(b, byte(in.unit), byte(in.target))
		}
	}
	return b
}

// Header is the fixed part of encoded program code.
type Header struct {
	Model        Model
	Temporaries  int
	Attributes   int
	Outputs      int
	Instructions int
}

// Decode reads the header of code produced by the ARB assembler and
// returns the mnemonic of every instruction, in program order.
func Decode(code []byte) (Header, []string, error) {
	var h Header
	if len(code) < 14 || [4]byte(code[:4]) != magic {
		return h, nil, ErrInvalidCode
	}
	if code[4] != encodingVersion {
		return h, nil, fmt.Errorf("%w: version %d", ErrInvalidCode, code[4])
	}
	h.Model = Model(code[5])
	h.Temporaries = int(binary.LittleEndian.Uint16(code[6:]))
	h.Attributes = int(binary.LittleEndian.Uint16(code[8:]))
	h.Outputs = int(binary.LittleEndian.Uint16(code[10:]))
	h.Instructions = int(binary.LittleEndian.Uint16(code[12:]))

	ops := make([]string, 0, h.Instructions)
	b := code[14:]
	for i := 0; i < h.Instructions; i++ {
		if len(b) < 7 {
			return h, nil, fmt.Errorf("%w: truncated instruction %d", ErrInvalidCode, i)
		}
		op := opcode(b[0])
		info, ok := opcodes[op]
		if !ok {
			return h, nil, fmt.Errorf("%w: opcode %d", ErrInvalidCode, b[0])
		}
		name := info.name
		if b[1]&flagSat != 0 {
			name += "_SAT"
		}
		n := 7 + int(b[6])*5
		if info.texture {
			n += 2
		}
		if len(b) < n {
			return h, nil, fmt.Errorf("%w: truncated instruction %d", ErrInvalidCode, i)
		}
		if info.texture {
			name += " " + gputypes.TextureViewDimension(b[n-1]).String()
		}
		ops = append(ops, name)
		b = b[n:]
	}
	return h, ops, nil
}
