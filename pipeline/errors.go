package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrNilComponent is returned when a nil component is added to a graph.
	ErrNilComponent = errors.New("component cannot be nil")

	// ErrEmptyNodeName is returned when a node is added without a name.
	ErrEmptyNodeName = errors.New("node name cannot be empty")

	// ErrDuplicateNode is returned when two nodes share a name.
	ErrDuplicateNode = errors.New("duplicate node name")

	// ErrUnknownNode is returned when a connection references a node
	// that was never added.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownPort is returned when a connection references a port
	// the component does not declare.
	ErrUnknownPort = errors.New("unknown port")

	// ErrBadEndpoint is returned when a connection endpoint is not of
	// the form "node.port".
	ErrBadEndpoint = errors.New("endpoint must be of the form node.port")

	// ErrPortConflict is returned when an input port would have more
	// than one producer.
	ErrPortConflict = errors.New("input port already has a producer")

	// ErrUnsatisfiedPort is returned when a required input port has no
	// producer and no seed value.
	ErrUnsatisfiedPort = errors.New("input port has no producer")

	// ErrUnknownSeed is returned when a seed entry names a node that
	// was never added or a port the node does not declare.
	ErrUnknownSeed = errors.New("seed does not match a node input port")

	// ErrCycle is returned when the graph is not acyclic.
	ErrCycle = errors.New("pipeline graph contains a cycle")
)

// NodeError reports a failure inside a specific node's Run.
type NodeError struct {
	Node string
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %q: %v", e.Node, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}
