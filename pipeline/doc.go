// Package pipeline provides a declarative DAG runner for composing
// processing stages.
//
// A Graph is built from named nodes, each implementing Component with
// declared input and output ports, and port-to-port connections:
//
//	g := pipeline.New()
//	g.AddNode("fetcher", fetcher)
//	g.AddNode("splitter", splitter)
//	g.Connect("fetcher.payloads", "splitter.documents")
//	results, err := g.Run(ctx, map[string]pipeline.Inputs{
//	    "fetcher": {"sources": sources},
//	})
//
// The graph validates its shape before executing anything: no cycles,
// and every required input port has exactly one producer (an edge or a
// seed value). Execution is synchronous and topological; one output
// port may fan out to several consumers, and a node may fan in by
// declaring several input ports.
package pipeline
