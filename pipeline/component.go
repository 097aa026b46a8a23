package pipeline

import "context"

// Inputs carries the payloads delivered to a component, keyed by input
// port name.
type Inputs map[string]any

// Outputs carries the payloads a component produced, keyed by output
// port name.
type Outputs map[string]any

// Component is a single pipeline stage. A component declares its ports
// up front; the graph uses the declarations to validate connections
// before anything executes.
//
// Implementations must be safe to run repeatedly: Run is invoked once
// per graph execution and must not retain the Inputs map.
type Component interface {
	// InputPorts lists the input port names this component requires.
	// Every listed port must have exactly one producer (an edge or a
	// seed value) before the graph will run.
	InputPorts() []string

	// OutputPorts lists the output port names this component may produce.
	OutputPorts() []string

	// Run executes the stage. The Inputs map contains a value for every
	// declared input port.
	Run(ctx context.Context, in Inputs) (Outputs, error)
}
