package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// Graph is a directed acyclic graph of named components. Nodes are added
// with AddNode, wired port-to-port with Connect, and executed with Run.
//
// Execution is synchronous: nodes run one at a time in topological
// order, each stage completing before the next begins.
type Graph struct {
	nodes  map[string]*node
	order  []string // node names in insertion order, for stable scheduling
	edges  []edge
	logger *slog.Logger
}

type node struct {
	name      string
	component Component
}

type edge struct {
	fromNode string
	fromPort string
	toNode   string
	toPort   string
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Graph) {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger
	}
}

// New creates an empty pipeline graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		nodes:  make(map[string]*node),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddNode registers a component under a unique name.
func (g *Graph) AddNode(name string, c Component) error {
	if name == "" {
		return ErrEmptyNodeName
	}
	if c == nil {
		return fmt.Errorf("%w: node %q", ErrNilComponent, name)
	}
	if _, exists := g.nodes[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateNode, name)
	}
	g.nodes[name] = &node{name: name, component: c}
	g.order = append(g.order, name)
	return nil
}

// Connect wires an output port to an input port. Both endpoints use the
// "node.port" form. An input port accepts exactly one producer; an
// output port may feed any number of consumers.
func (g *Graph) Connect(from, to string) error {
	fromNode, fromPort, err := g.splitEndpoint(from)
	if err != nil {
		return err
	}
	toNode, toPort, err := g.splitEndpoint(to)
	if err != nil {
		return err
	}

	if !slices.Contains(fromNode.component.OutputPorts(), fromPort) {
		return fmt.Errorf("%w: %q has no output port %q", ErrUnknownPort, fromNode.name, fromPort)
	}
	if !slices.Contains(toNode.component.InputPorts(), toPort) {
		return fmt.Errorf("%w: %q has no input port %q", ErrUnknownPort, toNode.name, toPort)
	}

	for _, e := range g.edges {
		if e.toNode == toNode.name && e.toPort == toPort {
			return fmt.Errorf("%w: %s.%s", ErrPortConflict, toNode.name, toPort)
		}
	}

	g.edges = append(g.edges, edge{
		fromNode: fromNode.name,
		fromPort: fromPort,
		toNode:   toNode.name,
		toPort:   toPort,
	})
	return nil
}

func (g *Graph) splitEndpoint(endpoint string) (*node, string, error) {
	nodeName, port, found := strings.Cut(endpoint, ".")
	if !found || nodeName == "" || port == "" {
		return nil, "", fmt.Errorf("%w: %q", ErrBadEndpoint, endpoint)
	}
	n, exists := g.nodes[nodeName]
	if !exists {
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownNode, nodeName)
	}
	return n, port, nil
}

// Run executes the graph. The seed map provides initial inputs for
// source nodes, keyed by node name. Every required input port must be
// satisfied either by a seed value or by a connected edge; the graph is
// validated in full before any node executes.
//
// The result holds, per node, the outputs that no edge consumed
// (terminal outputs). Nodes whose outputs were all consumed downstream
// do not appear in the result.
func (g *Graph) Run(ctx context.Context, seed map[string]Inputs) (map[string]Outputs, error) {
	if err := g.validate(seed); err != nil {
		return nil, err
	}

	topo, err := g.topoOrder()
	if err != nil {
		return nil, err
	}

	// Pending inputs per node, pre-filled with seed values.
	pending := make(map[string]Inputs, len(g.nodes))
	for name := range g.nodes {
		in := Inputs{}
		for port, value := range seed[name] {
			in[port] = value
		}
		pending[name] = in
	}

	consumed := g.consumedOutputs()
	results := make(map[string]Outputs)

	for _, name := range topo {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n := g.nodes[name]
		g.logger.Debug("running pipeline node", "node", name)

		out, err := n.component.Run(ctx, pending[name])
		if err != nil {
			return nil, &NodeError{Node: name, Err: err}
		}

		// Route outputs along edges; fan-out duplicates the reference.
		for _, e := range g.edges {
			if e.fromNode != name {
				continue
			}
			value, ok := out[e.fromPort]
			if !ok {
				return nil, &NodeError{
					Node: name,
					Err:  fmt.Errorf("%w: produced no value on connected port %q", ErrUnknownPort, e.fromPort),
				}
			}
			pending[e.toNode][e.toPort] = value
		}

		// Unconsumed outputs become part of the result.
		terminal := Outputs{}
		for port, value := range out {
			if !consumed[name+"."+port] {
				terminal[port] = value
			}
		}
		if len(terminal) > 0 {
			results[name] = terminal
		}
	}

	return results, nil
}

// validate checks that every required input port has exactly one
// producer: a seed value or a connected edge, but not both. Seed
// entries must name an existing node and one of its declared input
// ports; a typo fails the whole run before any node executes.
func (g *Graph) validate(seed map[string]Inputs) error {
	for name, in := range seed {
		n, exists := g.nodes[name]
		if !exists {
			return fmt.Errorf("%w: unknown node %q", ErrUnknownSeed, name)
		}
		for port := range in {
			if !slices.Contains(n.component.InputPorts(), port) {
				return fmt.Errorf("%w: %q has no input port %q", ErrUnknownSeed, name, port)
			}
		}
	}

	for _, name := range g.order {
		n := g.nodes[name]
		for _, port := range n.component.InputPorts() {
			_, seeded := seed[name][port]
			connected := false
			for _, e := range g.edges {
				if e.toNode == name && e.toPort == port {
					connected = true
					break
				}
			}
			if seeded && connected {
				return fmt.Errorf("%w: %s.%s is both seeded and connected", ErrPortConflict, name, port)
			}
			if !seeded && !connected {
				return fmt.Errorf("%w: %s.%s", ErrUnsatisfiedPort, name, port)
			}
		}
	}
	return nil
}

// topoOrder returns the nodes in execution order using Kahn's algorithm.
// Insertion order breaks ties so runs are deterministic.
func (g *Graph) topoOrder() ([]string, error) {
	indegree := make(map[string]int, len(g.nodes))
	for name := range g.nodes {
		indegree[name] = 0
	}
	// Count distinct upstream nodes, not edges, so a node feeding two
	// ports of the same consumer is counted once.
	upstream := make(map[string]map[string]bool)
	for _, e := range g.edges {
		if upstream[e.toNode] == nil {
			upstream[e.toNode] = make(map[string]bool)
		}
		if !upstream[e.toNode][e.fromNode] {
			upstream[e.toNode][e.fromNode] = true
			indegree[e.toNode]++
		}
	}

	var queue []string
	for _, name := range g.order {
		if indegree[name] == 0 {
			queue = append(queue, name)
		}
	}

	topo := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		topo = append(topo, name)

		released := make(map[string]bool)
		for _, e := range g.edges {
			if e.fromNode != name || released[e.toNode] {
				continue
			}
			released[e.toNode] = true
			indegree[e.toNode]--
			if indegree[e.toNode] == 0 {
				queue = append(queue, e.toNode)
			}
		}
	}

	if len(topo) != len(g.nodes) {
		return nil, ErrCycle
	}
	return topo, nil
}

// consumedOutputs returns the set of "node.port" output endpoints that
// feed at least one edge.
func (g *Graph) consumedOutputs() map[string]bool {
	consumed := make(map[string]bool, len(g.edges))
	for _, e := range g.edges {
		consumed[e.fromNode+"."+e.fromPort] = true
	}
	return consumed
}
