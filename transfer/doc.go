// Package transfer maps coefficient vectors between two finite element
// spaces and back with the exact adjoint.
//
// SpaceTransfer picks a strategy once: spaces sharing a basis family are
// assumed to differ by mesh refinement and use the refinement operator of the
// fine space; spaces sharing a mesh use OrderTransfer, which applies a local
// interpolation matrix element by element. TrueSpaceTransfer wraps either in
// the true-dof restriction of the high space and prolongation of the low
// space.
//
// The spaces and their meshes are referenced, not copied, and must not change
// while an operator built on them is in use. Operators keep scratch storage
// and are not safe for concurrent calls.
package transfer
