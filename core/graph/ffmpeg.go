package graph

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EncodeFFmpeg renders a graph as an ffmpeg -af filtergraph. Linear runs
// become comma-joined filters; a split opens labeled branch chains that are
// rejoined with amix. Nested splits have no filtergraph encoding here and
// are rejected.
func EncodeFFmpeg(g *Graph) (string, error) {
	if err := Validate(g); err != nil {
		return "", fmt.Errorf("cannot encode invalid graph: %w", err)
	}

	ix := indexGraph(g)
	var out strings.Builder
	needComma := false

	cur := ix.stages[ix.source]
	for cur != nil {
		if cur.Kind == StageSplit {
			merge, err := encodeSplit(ix, cur, &out, needComma)
			if err != nil {
				return "", err
			}
			needComma = true
			cur = ix.follow(merge, "out")
			continue
		}

		frag, err := renderStage(cur)
		if err != nil {
			return "", err
		}
		if needComma {
			out.WriteByte(',')
		}
		out.WriteString(frag)
		needComma = true
		cur = ix.follow(cur.Name, "out")
	}

	return out.String(), nil
}

// encodeSplit writes the asplit, each labeled branch chain, and the amix
// rejoin. It returns the name of the consuming merge so the caller can
// continue downstream of it.
func encodeSplit(ix *graphIndex, split *Stage, out *strings.Builder, needComma bool) (string, error) {
	if needComma {
		out.WriteByte(',')
	}
	fmt.Fprintf(out, "asplit=%d", len(split.Branches))
	for _, br := range split.Branches {
		out.WriteString("[" + br + "]")
	}

	mergeName := ""
	for _, br := range split.Branches {
		out.WriteString(";[" + br + "]")
		wrote := false
		s := ix.follow(split.Name, br)
		for s.Kind != StageMerge {
			if s.Kind == StageSplit {
				return "", errors.New("nested band splits cannot be encoded as an ffmpeg filtergraph")
			}
			frag, err := renderStage(s)
			if err != nil {
				return "", err
			}
			if wrote {
				out.WriteByte(',')
			}
			out.WriteString(frag)
			wrote = true
			s = ix.follow(s.Name, "out")
		}
		if !wrote {
			out.WriteString("anull")
		}
		mergeName = s.Name
		out.WriteString("[" + br + "_out]")
	}

	out.WriteByte(';')
	for _, br := range split.Branches {
		out.WriteString("[" + br + "_out]")
	}
	fmt.Fprintf(out, "amix=inputs=%d", len(split.Branches))
	return mergeName, nil
}

func renderStage(s *Stage) (string, error) {
	switch s.Kind {
	case StageFilter:
		return renderFilter(s)
	case StageDynamics:
		d := s.Dynamics
		return fmt.Sprintf("acompressor=threshold=%sdB:ratio=%s:attack=%s:release=%s:makeup=%s",
			num(d.ThresholdDB), num(d.Ratio), num(d.AttackMs), num(d.ReleaseMs), num(d.MakeupDB)), nil
	case StageNormalize:
		n := s.Normalize
		return fmt.Sprintf("loudnorm=I=%s:TP=%s:LRA=%s",
			num(n.TargetLUFS), num(n.TruePeakDB), num(n.LoudnessRangeLU)), nil
	case StageLimit:
		// alimiter takes a linear ceiling, not dB.
		l := s.Limit
		limit := math.Pow(10, l.CeilingDB/20)
		return fmt.Sprintf("alimiter=level_in=1:level_out=0.95:limit=%.4f:attack=1:release=%s",
			limit, num(l.ReleaseMs)), nil
	default:
		return "", fmt.Errorf("stage %q of kind %q has no linear encoding", s.Name, s.Kind)
	}
}

func renderFilter(s *Stage) (string, error) {
	f := s.Filter
	switch f.Op {
	case OpHighpass:
		return "highpass=f=" + num(f.FreqHz), nil
	case OpLowpass:
		return "lowpass=f=" + num(f.FreqHz), nil
	case OpEqualizer:
		if f.Q <= 0 {
			return "", fmt.Errorf("equalizer stage %q has no q", s.Name)
		}
		return fmt.Sprintf("equalizer=f=%s:width_type=h:width=%s:g=%s",
			num(f.FreqHz), num(1/f.Q), num(f.GainDB)), nil
	case OpExciter:
		scope := 0
		if f.FullBand {
			scope = 1
		}
		return fmt.Sprintf("aexciter=amount=%s:harmonics=%s:scope=%d",
			num(f.Amount), num(f.Harmonics), scope), nil
	case OpWidener:
		return fmt.Sprintf("extrastereo=m=%s:c=0", num(f.Width-1)), nil
	case OpBandlimit:
		switch {
		case f.LowHz > 0 && f.HighHz > 0:
			return fmt.Sprintf("highpass=f=%s,lowpass=f=%s", num(f.LowHz), num(f.HighHz)), nil
		case f.HighHz > 0:
			return "lowpass=f=" + num(f.HighHz), nil
		case f.LowHz > 0:
			return "highpass=f=" + num(f.LowHz), nil
		default:
			return "", fmt.Errorf("bandlimit stage %q has no band edges", s.Name)
		}
	default:
		return "", fmt.Errorf("filter stage %q has unknown op %q", s.Name, f.Op)
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
