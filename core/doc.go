// Package core defines the shared data model of ExpertMesh: delegation
// strategies, expert answers, final answers, token accounting and the error
// taxonomy. It is dependency-free so every other package can import it.
package core
