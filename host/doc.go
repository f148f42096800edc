// Package host provides the host-side collaborators fact computations read
// from: attributes used for confinement, a recursive directory scanner and a
// content hasher.
//
// Each collaborator is a small interface with one OS-backed implementation so
// tests can substitute fakes.
package host
