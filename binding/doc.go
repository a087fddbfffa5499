// Package binding computes the numeric constants of generated programs.
//
// A Descriptor names a target register, the state slots to gather and a
// shared, stateless Function. Programs carry their generator-declared
// descriptors against program.local indices; after compilation Merge
// combines them with the compiler's parameter bank into Final descriptors,
// one per used bank position, and Resolve evaluates those against the
// pipeline state on every draw.
package binding
