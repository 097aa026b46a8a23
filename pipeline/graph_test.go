package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stage is a configurable test component.
type stage struct {
	inputs  []string
	outputs []string
	run     func(ctx context.Context, in Inputs) (Outputs, error)
}

func (s *stage) InputPorts() []string  { return s.inputs }
func (s *stage) OutputPorts() []string { return s.outputs }

func (s *stage) Run(ctx context.Context, in Inputs) (Outputs, error) {
	return s.run(ctx, in)
}

// upper emits the uppercase-ish transform marker of its input.
func appendStage(suffix string) *stage {
	return &stage{
		inputs:  []string{"text"},
		outputs: []string{"text"},
		run: func(_ context.Context, in Inputs) (Outputs, error) {
			return Outputs{"text": in["text"].(string) + suffix}, nil
		},
	}
}

func sourceStage(value string) *stage {
	return &stage{
		inputs:  []string{"seed"},
		outputs: []string{"text"},
		run: func(_ context.Context, in Inputs) (Outputs, error) {
			return Outputs{"text": in["seed"].(string) + value}, nil
		},
	}
}

func TestGraph_LinearExecution(t *testing.T) {
	g := New()
	require.NoError(t, g.AddNode("source", sourceStage("a")))
	require.NoError(t, g.AddNode("first", appendStage("b")))
	require.NoError(t, g.AddNode("second", appendStage("c")))
	require.NoError(t, g.Connect("source.text", "first.text"))
	require.NoError(t, g.Connect("first.text", "second.text"))

	results, err := g.Run(context.Background(), map[string]Inputs{
		"source": {"seed": ""},
	})
	require.NoError(t, err)

	require.Contains(t, results, "second")
	assert.Equal(t, "abc", results["second"]["text"])

	// Consumed outputs must not leak into the result.
	assert.NotContains(t, results, "source")
	assert.NotContains(t, results, "first")
}

func TestGraph_FanOut(t *testing.T) {
	g := New()
	require.NoError(t, g.AddNode("source", sourceStage("x")))
	require.NoError(t, g.AddNode("left", appendStage("L")))
	require.NoError(t, g.AddNode("right", appendStage("R")))
	require.NoError(t, g.Connect("source.text", "left.text"))
	require.NoError(t, g.Connect("source.text", "right.text"))

	results, err := g.Run(context.Background(), map[string]Inputs{
		"source": {"seed": ""},
	})
	require.NoError(t, err)

	assert.Equal(t, "xL", results["left"]["text"])
	assert.Equal(t, "xR", results["right"]["text"])
}

func TestGraph_FanIn(t *testing.T) {
	joiner := &stage{
		inputs:  []string{"left", "right"},
		outputs: []string{"text"},
		run: func(_ context.Context, in Inputs) (Outputs, error) {
			return Outputs{"text": in["left"].(string) + "+" + in["right"].(string)}, nil
		},
	}

	g := New()
	require.NoError(t, g.AddNode("a", sourceStage("a")))
	require.NoError(t, g.AddNode("b", sourceStage("b")))
	require.NoError(t, g.AddNode("join", joiner))
	require.NoError(t, g.Connect("a.text", "join.left"))
	require.NoError(t, g.Connect("b.text", "join.right"))

	results, err := g.Run(context.Background(), map[string]Inputs{
		"a": {"seed": ""},
		"b": {"seed": ""},
	})
	require.NoError(t, err)
	assert.Equal(t, "a+b", results["join"]["text"])
}

func TestGraph_CycleDetected(t *testing.T) {
	g := New()
	require.NoError(t, g.AddNode("first", appendStage("a")))
	require.NoError(t, g.AddNode("second", appendStage("b")))
	require.NoError(t, g.Connect("first.text", "second.text"))
	require.NoError(t, g.Connect("second.text", "first.text"))

	_, err := g.Run(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCycle)
}

func TestGraph_UnsatisfiedPort(t *testing.T) {
	g := New()
	require.NoError(t, g.AddNode("lonely", appendStage("a")))

	_, err := g.Run(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsatisfiedPort)
}

func TestGraph_PortConflict(t *testing.T) {
	g := New()
	require.NoError(t, g.AddNode("a", sourceStage("a")))
	require.NoError(t, g.AddNode("b", sourceStage("b")))
	require.NoError(t, g.AddNode("sink", appendStage("s")))
	require.NoError(t, g.Connect("a.text", "sink.text"))

	err := g.Connect("b.text", "sink.text")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPortConflict)
}

func TestGraph_UnknownSeedRejected(t *testing.T) {
	g := New()
	require.NoError(t, g.AddNode("source", sourceStage("a")))

	t.Run("unknown node", func(t *testing.T) {
		_, err := g.Run(context.Background(), map[string]Inputs{
			"source":  {"seed": ""},
			"sourcee": {"seed": ""},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownSeed)
	})

	t.Run("unknown port", func(t *testing.T) {
		_, err := g.Run(context.Background(), map[string]Inputs{
			"source": {"seed": "", "extra": 1},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownSeed)
	})
}

func TestGraph_SeededAndConnectedConflict(t *testing.T) {
	g := New()
	require.NoError(t, g.AddNode("source", sourceStage("a")))
	require.NoError(t, g.AddNode("sink", appendStage("s")))
	require.NoError(t, g.Connect("source.text", "sink.text"))

	_, err := g.Run(context.Background(), map[string]Inputs{
		"source": {"seed": ""},
		"sink":   {"text": "direct"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPortConflict)
}

func TestGraph_ConnectValidation(t *testing.T) {
	g := New()
	require.NoError(t, g.AddNode("source", sourceStage("a")))

	tests := []struct {
		name    string
		from    string
		to      string
		wantErr error
	}{
		{"missing dot", "source", "source.text", ErrBadEndpoint},
		{"empty port", "source.", "source.text", ErrBadEndpoint},
		{"unknown from node", "ghost.text", "source.seed", ErrUnknownNode},
		{"unknown to node", "source.text", "ghost.seed", ErrUnknownNode},
		{"unknown output port", "source.nope", "source.seed", ErrUnknownPort},
		{"unknown input port", "source.text", "source.nope", ErrUnknownPort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Connect(tt.from, tt.to)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGraph_AddNodeValidation(t *testing.T) {
	g := New()
	require.NoError(t, g.AddNode("a", sourceStage("a")))

	assert.ErrorIs(t, g.AddNode("", sourceStage("b")), ErrEmptyNodeName)
	assert.ErrorIs(t, g.AddNode("b", nil), ErrNilComponent)
	assert.ErrorIs(t, g.AddNode("a", sourceStage("b")), ErrDuplicateNode)
}

func TestGraph_NodeFailureWrapped(t *testing.T) {
	boom := errors.New("boom")
	failing := &stage{
		inputs:  []string{"text"},
		outputs: []string{"text"},
		run: func(_ context.Context, _ Inputs) (Outputs, error) {
			return nil, boom
		},
	}

	g := New()
	require.NoError(t, g.AddNode("source", sourceStage("a")))
	require.NoError(t, g.AddNode("fail", failing))
	require.NoError(t, g.Connect("source.text", "fail.text"))

	_, err := g.Run(context.Background(), map[string]Inputs{
		"source": {"seed": ""},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var nodeErr *NodeError
	require.ErrorAs(t, err, &nodeErr)
	assert.Equal(t, "fail", nodeErr.Node)
}

func TestGraph_MissingConnectedOutput(t *testing.T) {
	silent := &stage{
		inputs:  []string{"seed"},
		outputs: []string{"text"},
		run: func(_ context.Context, _ Inputs) (Outputs, error) {
			return Outputs{}, nil // declares "text" but never produces it
		},
	}

	g := New()
	require.NoError(t, g.AddNode("silent", silent))
	require.NoError(t, g.AddNode("sink", appendStage("s")))
	require.NoError(t, g.Connect("silent.text", "sink.text"))

	_, err := g.Run(context.Background(), map[string]Inputs{
		"silent": {"seed": ""},
	})
	require.Error(t, err)

	var nodeErr *NodeError
	require.ErrorAs(t, err, &nodeErr)
	assert.Equal(t, "silent", nodeErr.Node)
}

func TestGraph_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := New()
	require.NoError(t, g.AddNode("source", sourceStage("a")))

	_, err := g.Run(ctx, map[string]Inputs{"source": {"seed": ""}})
	assert.ErrorIs(t, err, context.Canceled)
}
