// Package model generates initial body positions for building and
// benchmarking trees: Plummer spheres and uniformly filled cubes.
//
// Generators are seeded explicitly when constructed, so two generators
// made with the same seed produce the same sequence.
package model
