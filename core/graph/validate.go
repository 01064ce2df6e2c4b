package graph

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Validate checks the structural invariants of a graph: unique stage names
// with specs matching their kinds, every port wired exactly once apart from
// one source input and one sink output, no cycles, and every split consumed
// in full by exactly one merge.
func Validate(g *Graph) error {
	if g == nil || len(g.Stages) == 0 {
		return errors.New("graph has no stages")
	}

	stages := make(map[string]*Stage, len(g.Stages))
	for i := range g.Stages {
		s := &g.Stages[i]
		if s.Name == "" {
			return errors.New("graph contains a stage with an empty name")
		}
		if _, dup := stages[s.Name]; dup {
			return fmt.Errorf("duplicate stage name %q", s.Name)
		}
		if err := checkStageSpec(s); err != nil {
			return err
		}
		stages[s.Name] = s
	}

	inWires := make(map[PortRef]int)
	outWires := make(map[PortRef]int)
	for _, s := range g.Stages {
		for _, p := range s.InputPorts() {
			inWires[PortRef{Stage: s.Name, Port: p}] = 0
		}
		for _, p := range s.OutputPorts() {
			outWires[PortRef{Stage: s.Name, Port: p}] = 0
		}
	}

	for _, e := range g.Edges {
		if _, ok := stages[e.From.Stage]; !ok {
			return fmt.Errorf("edge from unknown stage %q", e.From.Stage)
		}
		if _, ok := stages[e.To.Stage]; !ok {
			return fmt.Errorf("edge to unknown stage %q", e.To.Stage)
		}
		if _, ok := outWires[e.From]; !ok {
			return fmt.Errorf("edge from unknown port %s.%s", e.From.Stage, e.From.Port)
		}
		if _, ok := inWires[e.To]; !ok {
			return fmt.Errorf("edge to unknown port %s.%s", e.To.Stage, e.To.Port)
		}
		outWires[e.From]++
		inWires[e.To]++
	}

	var sources, sinks []string
	for p, n := range inWires {
		switch {
		case n == 0:
			sources = append(sources, p.Stage)
		case n > 1:
			return fmt.Errorf("input port %s.%s wired %d times", p.Stage, p.Port, n)
		}
	}
	for p, n := range outWires {
		switch {
		case n == 0:
			sinks = append(sinks, p.Stage)
		case n > 1:
			return fmt.Errorf("output port %s.%s wired %d times", p.Stage, p.Port, n)
		}
	}
	if len(sources) != 1 {
		sort.Strings(sources)
		return fmt.Errorf("graph must have exactly one source, found %d (%s)",
			len(sources), strings.Join(sources, ", "))
	}
	if len(sinks) != 1 {
		sort.Strings(sinks)
		return fmt.Errorf("graph must have exactly one sink, found %d (%s)",
			len(sinks), strings.Join(sinks, ", "))
	}

	if err := checkAcyclic(g, stages); err != nil {
		return err
	}

	v := &splitChecker{stages: stages, next: make(map[PortRef]PortRef, len(g.Edges))}
	for _, e := range g.Edges {
		v.next[e.From] = e.To
	}
	for i := range g.Stages {
		if g.Stages[i].Kind == StageSplit {
			if _, err := v.consumingMerge(&g.Stages[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkStageSpec(s *Stage) error {
	switch s.Kind {
	case StageFilter:
		if s.Filter == nil {
			return fmt.Errorf("filter stage %q has no filter spec", s.Name)
		}
	case StageDynamics:
		if s.Dynamics == nil {
			return fmt.Errorf("dynamics stage %q has no dynamics spec", s.Name)
		}
	case StageNormalize:
		if s.Normalize == nil {
			return fmt.Errorf("normalize stage %q has no normalize spec", s.Name)
		}
	case StageLimit:
		if s.Limit == nil {
			return fmt.Errorf("limit stage %q has no limit spec", s.Name)
		}
	case StageSplit, StageMerge:
		if len(s.Branches) < 2 {
			return fmt.Errorf("%s stage %q needs at least two branches", s.Kind, s.Name)
		}
		seen := make(map[string]bool, len(s.Branches))
		for _, b := range s.Branches {
			if b == "" {
				return fmt.Errorf("%s stage %q has an empty branch name", s.Kind, s.Name)
			}
			if seen[b] {
				return fmt.Errorf("%s stage %q has duplicate branch %q", s.Kind, s.Name, b)
			}
			seen[b] = true
		}
	default:
		return fmt.Errorf("stage %q has unknown kind %q", s.Name, s.Kind)
	}
	return nil
}

// checkAcyclic runs Kahn's algorithm over the stage adjacency.
func checkAcyclic(g *Graph, stages map[string]*Stage) error {
	indegree := make(map[string]int, len(stages))
	adjacent := make(map[string][]string, len(stages))
	for name := range stages {
		indegree[name] = 0
	}
	for _, e := range g.Edges {
		adjacent[e.From.Stage] = append(adjacent[e.From.Stage], e.To.Stage)
		indegree[e.To.Stage]++
	}

	queue := make([]string, 0, len(stages))
	for name, d := range indegree {
		if d == 0 {
			queue = append(queue, name)
		}
	}
	visited := 0
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		visited++
		for _, next := range adjacent[name] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	if visited != len(stages) {
		return errors.New("graph contains a cycle")
	}
	return nil
}

type splitChecker struct {
	stages map[string]*Stage
	next   map[PortRef]PortRef
}

// consumingMerge walks every branch of a split and requires them all to end
// at the same merge, whose input count matches the branch count.
func (v *splitChecker) consumingMerge(split *Stage) (string, error) {
	target := ""
	for _, branch := range split.Branches {
		mergeName, err := v.walkToMerge(PortRef{Stage: split.Name, Port: branch})
		if err != nil {
			return "", fmt.Errorf("split %q branch %q: %w", split.Name, branch, err)
		}
		if target == "" {
			target = mergeName
		} else if target != mergeName {
			return "", fmt.Errorf("split %q branches reach different merges %q and %q",
				split.Name, target, mergeName)
		}
	}
	merge := v.stages[target]
	if len(merge.Branches) != len(split.Branches) {
		return "", fmt.Errorf("split %q has %d branches but merge %q takes %d inputs",
			split.Name, len(split.Branches), target, len(merge.Branches))
	}
	return target, nil
}

func (v *splitChecker) walkToMerge(from PortRef) (string, error) {
	ref, ok := v.next[from]
	for {
		if !ok {
			return "", errors.New("branch ends without reaching a merge")
		}
		s := v.stages[ref.Stage]
		switch s.Kind {
		case StageMerge:
			return s.Name, nil
		case StageSplit:
			// A nested split must resolve to its own merge first; the walk
			// then continues downstream of that merge.
			mergeName, err := v.consumingMerge(s)
			if err != nil {
				return "", err
			}
			ref, ok = v.next[PortRef{Stage: mergeName, Port: "out"}]
		default:
			ref, ok = v.next[PortRef{Stage: s.Name, Port: "out"}]
		}
	}
}
