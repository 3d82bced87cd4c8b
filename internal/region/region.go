// Package region holds the small, dependency-free value types shared by
// every layer of the rules engine: a half-open byte range inside a file
// and a 1-indexed line/column location.
package region

import "fmt"

// Boundary is a half-open region of a file: [Index, Index+Length).
type Boundary struct {
	Index  int
	Length int
}

// End returns the exclusive end offset of the boundary.
func (b Boundary) End() int {
	return b.Index + b.Length
}

// Overlaps reports whether b and other share at least one byte.
func (b Boundary) Overlaps(other Boundary) bool {
	return b.Index < other.End() && other.Index < b.End()
}

// Contains reports whether other lies entirely within b.
func (b Boundary) Contains(other Boundary) bool {
	return other.Index >= b.Index && other.End() <= b.End()
}

// Validate checks the boundary invariant against a file of the given length.
func (b Boundary) Validate(fileLength int) error {
	if b.Index < 0 {
		return fmt.Errorf("boundary index %d is negative", b.Index)
	}
	if b.Length <= 0 {
		return fmt.Errorf("boundary length %d is not positive", b.Length)
	}
	if b.Index+b.Length > fileLength {
		return fmt.Errorf("boundary [%d,%d) exceeds file length %d", b.Index, b.End(), fileLength)
	}
	return nil
}

// Location is a 1-indexed line/column position.
type Location struct {
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Scope restricts where a pattern may match within a file.
type Scope string

const (
	ScopeAll     Scope = "all"
	ScopeCode    Scope = "code"
	ScopeComment Scope = "comment"
)

// ScopeSet is an unordered collection of scopes.
type ScopeSet map[Scope]bool

// NewScopeSet builds a ScopeSet from a slice, defaulting to {All} when empty.
func NewScopeSet(scopes []Scope) ScopeSet {
	if len(scopes) == 0 {
		return ScopeSet{ScopeAll: true}
	}
	set := make(ScopeSet, len(scopes))
	for _, s := range scopes {
		set[s] = true
	}
	return set
}

func (s ScopeSet) Contains(scope Scope) bool {
	return s[scope]
}
