package brawn

import "fmt"

// Modification is the type of a single alignment path edge.
type Modification int

const (
	// Match consumes one query column and one reference column.
	Match Modification = iota
	// Insertion consumes one reference column, gapping the query.
	Insertion
	// Deletion consumes one query column, gapping the reference.
	Deletion
)

func (m Modification) String() string {
	switch m {
	case Match:
		return "M"
	case Insertion:
		return "I"
	case Deletion:
		return "D"
	}
	return fmt.Sprintf("Modification(%d)", int(m))
}

// Edge is one step of an alignment path, recording its type and the number
// of query and reference columns consumed up to and including the step.
type Edge struct {
	Type            Modification
	QueryLength     int
	ReferenceLength int
}

// Path is an ordered walk through the alignment matrix from the start of
// both inputs to the end of both, with one edge per output column.
type Path struct {
	Edges []Edge
	Score float64
}
