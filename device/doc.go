// Package device defines the device-side state mirror read by generated
// programs.
//
// Vectors are addressed by VectorID and matrices by MatrixID plus a unit
// index. The id helpers (Material, Light, LightProduct, TexGen,
// TexEnvColor) lay the vector space out the way the state.* bindings of
// the program model name it.
//
// Memory is a reference Mirror. It starts from the power-on values of a
// legacy driver and computes the derived entries on read:
//
//	m := device.NewMemory()
//	m.SetVector(device.Light(0, device.LightPosition), f32.Vec4{0, 1, 0, 0})
//	half := m.Vector(device.Light(0, device.LightHalf))
package device
