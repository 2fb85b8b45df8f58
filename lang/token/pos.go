package token

// Pos is a 1-based source line number. The spec's chunk line table and token
// stream only need line granularity (no column), so unlike richer languages
// this is not packed with a column component.
type Pos int

// NoPos is the zero value of Pos, used when no position information is
// available (e.g. synthetic tokens).
const NoPos Pos = 0
