// Package compiler turns generated program text into device code.
//
// A Service compiles one source at a time and reports the parameter
// registers the program reads as a regbank.Bank, together with the texture
// units it samples and whether it can discard fragments.
//
// ARB assembles the ARB vertex and fragment program languages that the
// generator emits. Literals, state.* bindings, program.local and
// program.env references each take a bank slot; binding.Merge later turns
// the bank into the program's constant bindings.
//
//	res, err := compiler.NewARB(regbank.DefaultSize).Compile(src)
//	if err != nil {
//		var se *compiler.SyntaxError
//		if errors.As(err, &se) {
//			log.Printf("line %d: %s", se.Line, se.Msg)
//		}
//	}
//
// WGSL compiles WGSL modules to SPIR-V with naga. Multiplexer selects a
// service by the program header, and Memo remembers results by source.
package compiler
