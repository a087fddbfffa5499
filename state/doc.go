// Package state holds the numeric fixed-function state of a session.
//
// Each logical value (a material color, a light position, a matrix, the
// fog range) is a slot identified by SlotID with a fixed Shape. Writes mark
// the slot changed; Sync pushes changed slots into the device mirror
// through the slot's vector and component mask or its matrix unit:
//
//	ps := state.New(device.NewMemory())
//	ps.SetLightPosition(0, f32.Vec4{0, 1, 0, 0})
//	ps.Sync() // one mirror write
//	ps.Sync() // none
//
// Depth range and alpha reference have no device location; they are read
// by binding functions only.
package state
