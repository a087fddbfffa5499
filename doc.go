// Package ffp emulates a fixed-function rendering pipeline on top of
// programmable shaders.
//
// # Overview
//
// A snapshot of legacy fixed-function state (lighting, materials, fog,
// texture stage combine rules, alpha test, texture coordinate generation)
// is described by settings.PipelineSettings. A Session turns it into a
// vertex and a fragment program, compiles both through a compiler
// service, and resolves the programs' constants against the numeric state
// held in its state.PipelineState.
//
// # Quick Start
//
//	s := ffp.NewSession()
//	defer s.Close()
//
//	ps := settings.Defaults()
//	ps.Lighting = true
//	ps.Lights[0].Enabled = true
//
//	s.State().SetLightPosition(0, f32.Vec4{0, 0, 1, 0})
//
//	var vp, fp ffp.Program
//	if _, _, err := s.GeneratePrograms(&ps, &vp, &fp); err != nil {
//	    return err
//	}
//	// vp.Code, vp.Constants, fp.TextureUsage ... go to the device.
//
// # Variant Cache
//
// Generated programs are cached per stage, keyed by the full settings.
// A cache hit costs a settings comparison, a sync of the changed state
// slots and the evaluation of the variant's bindings. Nothing is
// generated or compiled again. When a cache is full it is cleared on the
// next insert.
//
// # Bindings
//
// Every constant register of a compiled program has one Final binding
// descriptor: literals copy themselves, state.* references copy the device
// mirror, and program.local parameters are computed by the binding
// functions the generator attached (normalized light directions, fog
// coefficients, the alpha reference). Parameters that nothing binds
// resolve to zero.
//
// # Programs from Callers
//
// CompileProgram and ResolveProgram accept hand-written programs in any
// model the compiler service supports (ARB assembly, WGSL):
//
//	res, err := s.CompileProgram(src)
//	...
//	v, err := s.ResolveProgram(res, []binding.Descriptor{{
//	    Target: binding.Local,
//	    Index:  3,
//	    Slots:  []state.SlotID{state.FogColor},
//	    Func:   binding.CopyState,
//	}}, &prog)
//
// # Concurrency
//
// A Session has no internal locking and must not be used from more than
// one goroutine at a time. SetLogger and Logger are safe for concurrent
// use.
//
// # Logging
//
// ffp is silent by default. SetLogger installs a log/slog logger shared
// by every session.
package ffp
