// Package graph models the mastering signal chain as a directed acyclic
// graph of processing stages, compiles resolved parameter sets into it, and
// encodes it for the audio engine at the boundary.
package graph

// StageKind discriminates the stage variants.
type StageKind string

const (
	StageFilter    StageKind = "filter"
	StageSplit     StageKind = "split"
	StageMerge     StageKind = "merge"
	StageDynamics  StageKind = "dynamics"
	StageNormalize StageKind = "normalize"
	StageLimit     StageKind = "limit"
)

// FilterOp names the single-stream filter operations.
type FilterOp string

const (
	OpHighpass  FilterOp = "highpass"
	OpLowpass   FilterOp = "lowpass"
	OpEqualizer FilterOp = "equalizer"
	OpExciter   FilterOp = "exciter"
	OpWidener   FilterOp = "widener"
	OpBandlimit FilterOp = "bandlimit"
)

// FilterSpec parameterizes a Filter stage. Fields are meaningful per op:
// FreqHz for highpass/lowpass and the equalizer center; LowHz/HighHz bound a
// bandlimit, zero meaning open on that side; GainDB and Q shape the
// equalizer; Amount, Harmonics and FullBand drive an exciter; Width drives
// the widener.
type FilterSpec struct {
	Op        FilterOp `json:"op"`
	FreqHz    float64  `json:"freqHz,omitempty"`
	LowHz     float64  `json:"lowHz,omitempty"`
	HighHz    float64  `json:"highHz,omitempty"`
	GainDB    float64  `json:"gainDb,omitempty"`
	Q         float64  `json:"q,omitempty"`
	Amount    float64  `json:"amount,omitempty"`
	Harmonics float64  `json:"harmonics,omitempty"`
	FullBand  bool     `json:"fullBand,omitempty"`
	Width     float64  `json:"width,omitempty"`
}

// DynamicsSpec parameterizes a compressor stage.
type DynamicsSpec struct {
	ThresholdDB float64 `json:"thresholdDb"`
	Ratio       float64 `json:"ratio"`
	AttackMs    float64 `json:"attackMs"`
	ReleaseMs   float64 `json:"releaseMs"`
	MakeupDB    float64 `json:"makeupDb"`
}

// NormalizeSpec parameterizes the loudness normalization stage.
type NormalizeSpec struct {
	TargetLUFS      float64 `json:"targetLufs"`
	TruePeakDB      float64 `json:"truePeakDb"`
	LoudnessRangeLU float64 `json:"loudnessRangeLu"`
}

// LimitSpec parameterizes the final limiter stage.
type LimitSpec struct {
	CeilingDB float64 `json:"ceilingDb"`
	ReleaseMs float64 `json:"releaseMs"`
}

// Stage is one processing node. The settings pointer matching Kind is set
// and the others are nil. Branches names the output ports of a Split and the
// input ports of a Merge; every other stage has one "in" and one "out" port.
type Stage struct {
	Name      string         `json:"name"`
	Kind      StageKind      `json:"kind"`
	Filter    *FilterSpec    `json:"filter,omitempty"`
	Dynamics  *DynamicsSpec  `json:"dynamics,omitempty"`
	Normalize *NormalizeSpec `json:"normalize,omitempty"`
	Limit     *LimitSpec     `json:"limit,omitempty"`
	Branches  []string       `json:"branches,omitempty"`
}

// InputPorts returns the stage's input port names.
func (s *Stage) InputPorts() []string {
	if s.Kind == StageMerge {
		return s.Branches
	}
	return []string{"in"}
}

// OutputPorts returns the stage's output port names.
func (s *Stage) OutputPorts() []string {
	if s.Kind == StageSplit {
		return s.Branches
	}
	return []string{"out"}
}

// PortRef addresses one port of one stage.
type PortRef struct {
	Stage string `json:"stage"`
	Port  string `json:"port"`
}

// Edge connects an output port to an input port.
type Edge struct {
	From PortRef `json:"from"`
	To   PortRef `json:"to"`
}

// Graph is a compiled signal chain. A valid graph has exactly one source
// (the unwired input of its first stage), exactly one sink (the unwired
// output of its last stage), no cycles, and every split fully consumed by
// exactly one merge.
type Graph struct {
	Stages []Stage `json:"stages"`
	Edges  []Edge  `json:"edges"`
}

// graphIndex gives O(1) stage and wiring lookups over a validated graph.
type graphIndex struct {
	stages map[string]*Stage
	next   map[PortRef]PortRef
	source string
}

func indexGraph(g *Graph) *graphIndex {
	ix := &graphIndex{
		stages: make(map[string]*Stage, len(g.Stages)),
		next:   make(map[PortRef]PortRef, len(g.Edges)),
	}
	incoming := make(map[PortRef]bool, len(g.Edges))
	for _, e := range g.Edges {
		ix.next[e.From] = e.To
		incoming[e.To] = true
	}
	for i := range g.Stages {
		s := &g.Stages[i]
		ix.stages[s.Name] = s
		for _, p := range s.InputPorts() {
			if !incoming[PortRef{Stage: s.Name, Port: p}] {
				ix.source = s.Name
			}
		}
	}
	return ix
}

// follow returns the stage wired to the given output port, nil at the sink.
func (ix *graphIndex) follow(stage, port string) *Stage {
	ref, ok := ix.next[PortRef{Stage: stage, Port: port}]
	if !ok {
		return nil
	}
	return ix.stages[ref.Stage]
}
