// Package water defines the mineral profile of a water sample and the
// concentrated mineral solutions used to adjust it.
//
// All concentrations are in mg/L. Hardness and alkalinity are derived from
// the base minerals on every call and are expressed as CaCO3 equivalents:
//
//	hardness   = 2.497*Ca + 4.118*Mg
//	alkalinity = 0.820*HCO3
//
// Profile and Solution are plain values; nothing in this package holds
// mutable state, so every function is safe for concurrent use.
package water
