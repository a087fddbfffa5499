// Package generator turns a settings.PipelineSettings snapshot into
// equivalent vertex and fragment programs.
//
// Generation is a pure function of the settings. Each feature (a light,
// a fog mode, a texture stage, an alpha test function) appends its own
// fragment of program text and, when the fragment needs a value that is
// only known at draw time, a binding.Descriptor computing it. The program
// text follows the ARB vertex and fragment program assembly languages.
//
// Program-intrinsic values are bound to reserved program.local indices
// (see IsReserved). Generated bindings are never merged with caller
// bindings, so the reservation only constrains the generator itself.
package generator
