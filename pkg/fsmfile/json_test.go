package fsmfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/fsm-draw/pkg/diagram"
	"github.com/ha1tch/fsm-draw/pkg/fsm"
	"github.com/ha1tch/fsm-draw/pkg/geom"
)

func TestExportFSM(t *testing.T) {
	f, err := ExportFSM(sampleDocument(t))
	require.NoError(t, err)

	assert.Equal(t, "ends-in-one", f.Name)
	assert.Equal(t, []string{"q0", "q1"}, f.States)
	assert.Equal(t, []string{"0", "1"}, f.Alphabet)
	assert.Equal(t, "q0", f.Initial)
	assert.Equal(t, []string{"q1"}, f.Accepting)
	require.NoError(t, f.Validate())
	assert.Empty(t, f.NonDeterministicStates())
	assert.Empty(t, f.IncompleteStates())
}

func TestExportRejectsDuplicateLabels(t *testing.T) {
	d := sampleDocument(t)
	d.Nodes[1].Label = d.Nodes[0].Label
	_, err := ExportFSM(d)
	assert.ErrorIs(t, err, diagram.ErrDuplicateLabel)
}

func TestJSONRoundTrip(t *testing.T) {
	f, err := ExportFSM(sampleDocument(t))
	require.NoError(t, err)

	for _, pretty := range []bool{false, true} {
		data, err := ToJSON(f, pretty)
		require.NoError(t, err)

		back, err := ParseJSON(data)
		require.NoError(t, err)
		assert.Equal(t, f.States, back.States)
		assert.Equal(t, f.Alphabet, back.Alphabet)
		assert.Equal(t, f.Initial, back.Initial)
		assert.Equal(t, f.Accepting, back.Accepting)
		assert.Equal(t, f.Transitions, back.Transitions)
	}
}

func TestParseJSONTargets(t *testing.T) {
	data := []byte(`{
		"type": "nfa",
		"states": ["a", "b", "c"],
		"alphabet": ["x"],
		"initial": "a",
		"accepting": ["c"],
		"transitions": [
			{"from": "a", "input": "x", "to": ["b", "c"]},
			{"from": "b", "input": null, "to": "c"}
		]
	}`)
	f, err := ParseJSON(data)
	require.NoError(t, err)
	assert.Equal(t, fsm.TypeNFA, f.Type)
	require.Len(t, f.Transitions, 2)
	assert.Equal(t, []string{"b", "c"}, f.Transitions[0].To)
	assert.Nil(t, f.Transitions[1].Input)

	_, err = ParseJSON([]byte(`{"transitions": [{"from": "a", "to": [1]}]}`))
	assert.Error(t, err)
	_, err = ParseJSON([]byte(`{"transitions": [{"from": "a"}]}`))
	assert.Error(t, err)
	_, err = ParseJSON([]byte(`{`))
	assert.Error(t, err)
}

func TestImportFSM(t *testing.T) {
	f := fsm.New(fsm.TypeNFA)
	f.Name = "imported"
	for _, s := range []string{"a", "b", "c"} {
		f.AddState(s)
	}
	x, y := "x", "y"
	f.AddInput(x)
	f.AddInput(y)
	f.SetInitial("a")
	f.SetAccepting("c")
	f.AddTransition("a", &x, []string{"b", "c"})
	f.AddTransition("a", &y, []string{"b"})
	f.AddTransition("b", nil, []string{"c"})
	f.AddTransition("c", &x, []string{"c"})

	d, err := ImportFSM(f, LayoutLayered, 150)
	require.NoError(t, err)

	e := diagram.New()
	require.NoError(t, e.LoadDocument(d))
	require.Len(t, e.Nodes(), 3)
	assert.Len(t, e.Tokens(), 2)
	assert.Len(t, e.Transitions(), 4)
	assert.Equal(t, "a", e.StartNode().Label())

	labels := make(map[string]*diagram.Node)
	for _, n := range e.Nodes() {
		labels[n.Label()] = n
	}
	ab, ok := e.TransitionBetween(labels["a"], labels["b"])
	require.True(t, ok)
	assert.Equal(t, "x,y", ab.Label())
	bc, ok := e.TransitionBetween(labels["b"], labels["c"])
	require.True(t, ok)
	assert.Equal(t, diagram.Epsilon, bc.Label())
	assert.True(t, labels["c"].IsAccept())

	// Back to the same automaton.
	back, err := ExportFSM(d)
	require.NoError(t, err)
	assert.Equal(t, f.States, back.States)
	assert.ElementsMatch(t, f.Alphabet, back.Alphabet)
	assert.Len(t, back.Transitions, 5)
}

func TestImportRejectsInvalidFSM(t *testing.T) {
	f := fsm.New(fsm.TypeDFA)
	_, err := ImportFSM(f, LayoutGrid, 100)
	assert.Error(t, err)
}

func TestAutoLayoutPlacesEveryState(t *testing.T) {
	f := fsm.New(fsm.TypeDFA)
	for _, s := range []string{"s0", "s1", "s2", "s3", "lonely"} {
		f.AddState(s)
	}
	in := "a"
	f.AddInput(in)
	f.SetInitial("s0")
	f.AddTransition("s0", &in, []string{"s1"})
	f.AddTransition("s0", &in, []string{"s2"})
	f.AddTransition("s2", &in, []string{"s3"})

	for _, algo := range []LayoutAlgorithm{LayoutLayered, LayoutGrid, LayoutCircular} {
		t.Run(algo.String(), func(t *testing.T) {
			pos := AutoLayout(f, algo, 150)
			require.Len(t, pos, 5)
			seen := make(map[geom.Point]string)
			for s, p := range pos {
				other, dup := seen[p]
				assert.False(t, dup, "%s overlaps %s", s, other)
				seen[p] = s
			}
		})
	}

	layered := AutoLayout(f, LayoutLayered, 100)
	assert.Less(t, layered["s0"].X, layered["s1"].X)
	assert.Equal(t, layered["s1"].X, layered["s2"].X)
	assert.Less(t, layered["s2"].X, layered["s3"].X)
	assert.Greater(t, layered["lonely"].X, layered["s3"].X)
}

func TestParseLayoutAlgorithm(t *testing.T) {
	for _, algo := range []LayoutAlgorithm{LayoutLayered, LayoutGrid, LayoutCircular} {
		got, err := ParseLayoutAlgorithm(algo.String())
		require.NoError(t, err)
		assert.Equal(t, algo, got)
	}
	_, err := ParseLayoutAlgorithm("spiral")
	assert.Error(t, err)
}
