package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownNode is returned when an edge references a node id absent
	// from the node list.
	ErrUnknownNode = errors.New("edge references unknown node")

	// ErrDuplicateNode is returned when two nodes share an external id.
	ErrDuplicateNode = errors.New("duplicate node id")
)

// ConstructionError reports a referential integrity violation found while
// building a Graph.
type ConstructionError struct {
	Edge   int   // index into the input edge list, -1 for node errors
	NodeID int64 // offending external node id
	Err    error
}

func (e *ConstructionError) Error() string {
	if e.Edge < 0 {
		return fmt.Sprintf("construct graph: node %d: %v", e.NodeID, e.Err)
	}
	return fmt.Sprintf("construct graph: edge %d: node %d: %v", e.Edge, e.NodeID, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }
