package mastering

import "github.com/manngobeh2006/oneclick-master/model"

// DerivePreview returns a gentler variant of a resolved parameter set for
// watermarked preview renders: quieter target, softer ceiling, and reduced
// processing amounts. Pure function of an already-resolved set.
func DerivePreview(p model.ParameterSet) model.ParameterSet {
	p.GentleProcessing = true
	p.TargetLUFS = -16.0
	p.LimiterCeilingDB = -1.0

	for i := range p.EQBands {
		p.EQBands[i].GainDB *= 0.6
	}
	p.SaturationAmount *= 0.5
	p.StereoWidth = 1.0 + (p.StereoWidth-1.0)*0.5

	return clampParameterSet(p)
}
