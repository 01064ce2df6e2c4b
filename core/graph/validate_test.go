package graph

import (
	"strings"
	"testing"
)

func filterStage(name string) Stage {
	return Stage{Name: name, Kind: StageFilter, Filter: &FilterSpec{Op: OpHighpass, FreqHz: 100}}
}

func limitStage(name string) Stage {
	return Stage{Name: name, Kind: StageLimit, Limit: &LimitSpec{CeilingDB: -1, ReleaseMs: 50}}
}

func edge(fromStage, fromPort, toStage, toPort string) Edge {
	return Edge{
		From: PortRef{Stage: fromStage, Port: fromPort},
		To:   PortRef{Stage: toStage, Port: toPort},
	}
}

func TestValidateLinearGraph(t *testing.T) {
	g := &Graph{
		Stages: []Stage{filterStage("a"), filterStage("b"), limitStage("out")},
		Edges: []Edge{
			edge("a", "out", "b", "in"),
			edge("b", "out", "out", "in"),
		},
	}
	if err := Validate(g); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateRejectsEmptyGraph(t *testing.T) {
	if err := Validate(&Graph{}); err == nil {
		t.Error("empty graph passed validation")
	}
	if err := Validate(nil); err == nil {
		t.Error("nil graph passed validation")
	}
}

func TestValidateRejectsDuplicateStageName(t *testing.T) {
	g := &Graph{Stages: []Stage{filterStage("a"), filterStage("a")}}
	err := Validate(g)
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("error = %v, want duplicate stage name", err)
	}
}

func TestValidateRejectsMissingSpec(t *testing.T) {
	g := &Graph{Stages: []Stage{{Name: "a", Kind: StageFilter}}}
	if err := Validate(g); err == nil {
		t.Error("filter stage without a spec passed validation")
	}
}

func TestValidateRejectsSecondSource(t *testing.T) {
	g := &Graph{
		Stages: []Stage{filterStage("a"), limitStage("out"), filterStage("orphan")},
		Edges: []Edge{
			edge("a", "out", "out", "in"),
			edge("orphan", "out", "out", "in"),
		},
	}
	err := Validate(g)
	if err == nil {
		t.Fatal("graph with two sources passed validation")
	}
}

func TestValidateRejectsDoubleWiredPort(t *testing.T) {
	g := &Graph{
		Stages: []Stage{filterStage("a"), filterStage("b"), limitStage("out")},
		Edges: []Edge{
			edge("a", "out", "out", "in"),
			edge("b", "out", "out", "in"),
		},
	}
	err := Validate(g)
	if err == nil || !strings.Contains(err.Error(), "wired 2 times") {
		t.Errorf("error = %v, want double-wired port", err)
	}
}

func TestValidateRejectsUnknownPort(t *testing.T) {
	g := &Graph{
		Stages: []Stage{filterStage("a"), limitStage("out")},
		Edges:  []Edge{edge("a", "out", "out", "side")},
	}
	err := Validate(g)
	if err == nil || !strings.Contains(err.Error(), "unknown port") {
		t.Errorf("error = %v, want unknown port", err)
	}
}

func TestValidateRejectsCycle(t *testing.T) {
	// The x/y pair is fully wired but disconnected from the main path.
	g := &Graph{
		Stages: []Stage{filterStage("a"), limitStage("out"), filterStage("x"), filterStage("y")},
		Edges: []Edge{
			edge("a", "out", "out", "in"),
			edge("x", "out", "y", "in"),
			edge("y", "out", "x", "in"),
		},
	}
	err := Validate(g)
	if err == nil || !strings.Contains(err.Error(), "cycle") {
		t.Errorf("error = %v, want cycle", err)
	}
}

func TestValidateRejectsCrossedSplits(t *testing.T) {
	// split2's branches flow into two different merges.
	g := &Graph{
		Stages: []Stage{
			filterStage("in"),
			{Name: "split1", Kind: StageSplit, Branches: []string{"a", "b"}},
			{Name: "split2", Kind: StageSplit, Branches: []string{"c", "d"}},
			{Name: "merge1", Kind: StageMerge, Branches: []string{"x", "y"}},
			{Name: "merge2", Kind: StageMerge, Branches: []string{"x", "y"}},
			limitStage("out"),
		},
		Edges: []Edge{
			edge("in", "out", "split1", "in"),
			edge("split1", "a", "merge1", "x"),
			edge("split1", "b", "split2", "in"),
			edge("split2", "c", "merge1", "y"),
			edge("split2", "d", "merge2", "x"),
			edge("merge1", "out", "merge2", "y"),
			edge("merge2", "out", "out", "in"),
		},
	}
	err := Validate(g)
	if err == nil || !strings.Contains(err.Error(), "different merges") {
		t.Errorf("error = %v, want branches reaching different merges", err)
	}
}

func TestValidateAcceptsNestedSplits(t *testing.T) {
	g := &Graph{
		Stages: []Stage{
			filterStage("in"),
			{Name: "split1", Kind: StageSplit, Branches: []string{"a", "b"}},
			{Name: "split2", Kind: StageSplit, Branches: []string{"c", "d"}},
			{Name: "merge2", Kind: StageMerge, Branches: []string{"c", "d"}},
			{Name: "merge1", Kind: StageMerge, Branches: []string{"a", "b"}},
			limitStage("out"),
		},
		Edges: []Edge{
			edge("in", "out", "split1", "in"),
			edge("split1", "a", "split2", "in"),
			edge("split2", "c", "merge2", "c"),
			edge("split2", "d", "merge2", "d"),
			edge("merge2", "out", "merge1", "a"),
			edge("split1", "b", "merge1", "b"),
			edge("merge1", "out", "out", "in"),
		},
	}
	if err := Validate(g); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateRejectsTwoBranchSplitWithSink(t *testing.T) {
	// One branch escapes to its own limiter instead of the merge.
	g := &Graph{
		Stages: []Stage{
			filterStage("in"),
			{Name: "split", Kind: StageSplit, Branches: []string{"a", "b"}},
			filterStage("fa"),
			filterStage("fb"),
			limitStage("out"),
			limitStage("escape"),
		},
		Edges: []Edge{
			edge("in", "out", "split", "in"),
			edge("split", "a", "fa", "in"),
			edge("split", "b", "fb", "in"),
			edge("fa", "out", "out", "in"),
			edge("fb", "out", "escape", "in"),
		},
	}
	if err := Validate(g); err == nil {
		t.Error("split with an unmerged branch passed validation")
	}
}
