package loudness

import (
	"fmt"

	"github.com/tphakala/go-audio-loudness/internal/engine"
	"github.com/tphakala/go-audio-loudness/internal/pipeline"
)

// newDecimateStage creates the anti-alias filter and decimator that precede
// K-weighting at high sample rates.
func newDecimateStage(spec pipeline.StageSpec) (pipeline.Stage, error) {
	d, err := engine.NewDecimator(spec.Factor, spec.Cutoff, spec.TransitionBW, spec.Attenuation)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// newKWeightingStage creates the shelf and high-pass cascade for the rate the
// stage runs at.
func newKWeightingStage(spec pipeline.StageSpec) pipeline.Stage {
	return engine.NewKWeightingStage(spec.InputRate)
}

// createStage creates the Stage described by spec.
func createStage(spec pipeline.StageSpec) (pipeline.Stage, error) {
	switch spec.Type {
	case pipeline.StageDecimate:
		return newDecimateStage(spec)

	case pipeline.StageKWeighting:
		return newKWeightingStage(spec), nil

	default:
		return nil, fmt.Errorf("unsupported stage type: %v", spec.Type)
	}
}

// Ensure implementations satisfy the interface
var (
	_ pipeline.Stage = (*engine.Decimator)(nil)
	_ pipeline.Stage = (*engine.KWeightingStage)(nil)
	_ pipeline.Stage = (*engine.Oversampler)(nil)
)
