package mastering

import (
	"testing"
)

func TestDerivePreview(t *testing.T) {
	c := NewCatalog()
	full, _ := c.Get(ProfileModernPop)

	p := DerivePreview(full)

	if !p.GentleProcessing {
		t.Error("preview must be gentle")
	}
	if p.TargetLUFS != -16 {
		t.Errorf("target = %v, want -16", p.TargetLUFS)
	}
	if p.LimiterCeilingDB != -1 {
		t.Errorf("ceiling = %v, want -1", p.LimiterCeilingDB)
	}
	// gains scale down to 60%
	if got := p.EQBands[4].GainDB; !approx(got, 0.9) {
		t.Errorf("high mid gain = %v, want 0.9", got)
	}
	if !approx(p.SaturationAmount, 0.03) {
		t.Errorf("saturation = %v, want 0.03", p.SaturationAmount)
	}
	// width pulls halfway back to neutral
	if !approx(p.StereoWidth, 1.075) {
		t.Errorf("width = %v, want 1.075", p.StereoWidth)
	}

	// the full set is untouched
	if full.TargetLUFS != -13.5 || full.EQBands[4].GainDB != 1.5 {
		t.Error("DerivePreview mutated its input")
	}
}

func TestDerivePreviewStaysWithinBounds(t *testing.T) {
	c := NewCatalog()
	for _, label := range c.Labels() {
		full, _ := c.Get(label)
		assertWithinBounds(t, DerivePreview(full))
	}
}
